package auth

// Claims representa la identidad autenticada ya resuelta, tipada una sola
// vez por el verifier externo. El core nunca introspecciona al caller.
type Claims struct {
	UserID string
	Email  string

	// Admin habilita mutaciones administrativas (reporte de ocupación).
	Admin bool
}
