// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

package logging

// SanitizeToken masks a bearer or extension token for logging.
// Example: "recon_abcdef123456" -> "reco...3456"
func SanitizeToken(token string) string {
	return mask(token, 12)
}

// SanitizeUserID masks a user id for logging.
// Example: "2f1c9a40-user" -> "2f1c...user"
func SanitizeUserID(userID string) string {
	return mask(userID, 8)
}

func mask(s string, minLen int) string {
	if s == "" {
		return ""
	}
	if len(s) <= minLen {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
