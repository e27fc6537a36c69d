package auth

// Verifier turns bearer tokens into identities. It is the single
// authentication point for both the HTTP and MQTT front-ends.
//
// Thread Safety:
//   - Verifier is immutable after construction and safe for concurrent use.
type Verifier struct {
	secret string
}

// NewVerifier creates a Verifier for the given signing secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Verify validates a bearer token and returns the caller's identity.
//
// Returns:
//   - ErrTokenMissing: the token is empty (absent credential header)
//   - ErrTokenExpired: signature valid but past expiry
//   - ErrTokenInvalid: any other defect (bad signature, malformed,
//     wrong purpose, missing user id)
func (v *Verifier) Verify(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, ErrTokenMissing
	}

	claims, err := parseClaims(tokenString, v.secret)
	if err != nil {
		return Identity{}, err
	}

	// Activation tokens authenticate exactly one operation and never
	// grant a session.
	if claims.Purpose != "" {
		return Identity{}, ErrTokenInvalid
	}

	return Identity{UserID: claims.UserID, IsAdmin: claims.IsAdmin}, nil
}

// VerifyAdmin validates a bearer token and additionally requires the
// admin flag. Non-admin identities get ErrForbidden.
func (v *Verifier) VerifyAdmin(tokenString string) (Identity, error) {
	identity, err := v.Verify(tokenString)
	if err != nil {
		return Identity{}, err
	}
	if !identity.IsAdmin {
		return Identity{}, ErrForbidden
	}
	return identity, nil
}
