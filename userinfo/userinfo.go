// Package userinfo maps an identity provider's userinfo record onto the
// canonical account field set and the residual extended attributes.
//
// The mapping is deterministic and total: it never fails, missing claims
// become empty values.
package userinfo

import "encoding/json"

// UserInfo is the untrusted claims set returned by the identity provider
// after a successful sign-in. Only the claims this module consumes are
// declared; everything else in the provider response is ignored on decode.
//
// No claim is guaranteed present except Sub, which is assumed set whenever
// linkage is performed. An empty string means the claim was absent.
type UserInfo struct {
	// Sub is the provider's stable subject identifier, the sole join key
	// between a local account and the external identity.
	Sub string `json:"sub"`

	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
	Name              string `json:"name"`
	GivenName         string `json:"given_name"`
	FamilyName        string `json:"family_name"`

	PhoneNumber string `json:"phone_number"`
	// PhoneNumberVerified is a pointer so an absent claim can be told
	// apart from an explicit false.
	PhoneNumberVerified *bool  `json:"phone_number_verified"`
	PhoneType           string `json:"phone_type"`

	// Address is the OIDC structured address claim, kept as-is.
	Address map[string]any `json:"address"`

	// Provider-namespaced social profile claims. The claim names are fixed
	// and enumerated here; there is no dynamic key construction.
	Twitter  map[string]any `json:"aq:social:twitter"`
	Facebook map[string]any `json:"aq:social:facebook"`
	LinkedIn map[string]any `json:"aq:social:linkedin"`
}

// Decode parses a raw provider userinfo response body.
func Decode(data []byte) (UserInfo, error) {
	var ui UserInfo
	if err := json.Unmarshal(data, &ui); err != nil {
		return UserInfo{}, err
	}
	return ui, nil
}
