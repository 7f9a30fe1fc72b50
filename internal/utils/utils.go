// Package utils holds small display and validation helpers shared by the
// commands.
package utils

// MaskAPIKey hides the middle of a key for listings. Short keys are fully
// masked because both halves would overlap.
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
