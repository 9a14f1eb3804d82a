package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/MateriasPrimas-api/internal/domain"
	"github.com/jhoicas/MateriasPrimas-api/pkg/jwt"
)

// JWTConfig parámetros de emisión de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase valida la credencial de administración configurada y emite JWT.
// No hay tabla de usuarios: el panel tiene un único operador definido por
// ADMIN_USER y ADMIN_PASSWORD_HASH (bcrypt).
type AuthUseCase struct {
	adminUser string
	adminHash string
	jwtCfg    JWTConfig
}

// NewAuthUseCase construye el caso de uso.
func NewAuthUseCase(adminUser, adminPasswordHash string, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{adminUser: adminUser, adminHash: adminPasswordHash, jwtCfg: jwtCfg}
}

// Login compara la credencial con bcrypt y devuelve un token firmado.
func (uc *AuthUseCase) Login(user, password string) (string, error) {
	if uc.adminHash == "" || user != uc.adminUser {
		return "", domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.adminHash), []byte(password)); err != nil {
		return "", domain.ErrUnauthorized
	}
	return jwt.Generate(uc.jwtCfg.Secret, user, "admin", uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
}
