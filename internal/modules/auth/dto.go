package auth

import "hotelfront/internal/domain"

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserPublic struct {
	ID       int64           `json:"id"`
	Username string          `json:"username"`
	Name     string          `json:"name"`
	Role     domain.UserRole `json:"role"`
}

type LoginResponse struct {
	User        UserPublic `json:"user"`
	AccessToken string     `json:"access_token"`
	ExpiresIn   int64      `json:"expires_in"`
}

func toPublic(u *domain.User) UserPublic {
	return UserPublic{ID: u.ID, Username: u.Username, Name: u.Name, Role: u.Role}
}
