package auth

import "regexp"

// Client-facing messages. Signin failures deliberately share one message so callers
// cannot tell an unknown username from a wrong password.
const (
	MsgPasswordTooShort  = "Le mot de passe doit contenir au moins 4 caractères"
	MsgUsernameLength    = "Votre identifiant doit contenir entre 2 et 20 caractères"
	MsgUsernameCharset   = "Votre identifiant ne doit contenir que des lettres minuscules non accentuées"
	MsgUsernameTaken     = "Cet identifiant est déjà associé à un compte"
	MsgUnknownIdentifier = "Cet identifiant est inconnu"
	MsgMissingToken      = "Unauthorize user"
	MsgNotConnected      = "Utilisateur non connecté"
)

const (
	MinPasswordLength = 4
	MinUsernameLength = 2
	MaxUsernameLength = 20
)

var usernamePattern = regexp.MustCompile(`^[a-z]+$`)

// Credentials is the input of signup and signin. Missing fields are empty strings.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by signup and signin on success.
type TokenResponse struct {
	Error *string `json:"error"`
	Token string  `json:"token"`
}
