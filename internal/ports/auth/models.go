package auth

// Claims representa la información embebida en el token de sesión.
type Claims struct {
	OwnerID int64
	Email   string
	Role    string
}
