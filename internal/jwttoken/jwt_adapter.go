package jwttoken

import (
	"jobeval/internal/platform/middleware"
)

// ToMiddlewareClaims narrows token claims to what the auth middleware needs.
func ToMiddlewareClaims(claims *Claims) *middleware.JWTClaims {
	return &middleware.JWTClaims{
		Subject: claims.Subject,
		TokenID: claims.ID,
		Scope:   claims.Scope,
	}
}

// ServiceAdapter lets *Service satisfy middleware.JWTValidator.
type ServiceAdapter struct {
	service *Service
}

func NewServiceAdapter(service *Service) *ServiceAdapter {
	return &ServiceAdapter{service: service}
}

func (a *ServiceAdapter) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
