package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ride-hailing/internal/models"
	"ride-hailing/internal/observability"
	emailSvc "ride-hailing/pkg/email"
	"ride-hailing/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

// ServiceInterface defines methods for rider business logic.
type ServiceInterface interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	HandleGoogleLogin() (string, string, error)
	HandleGoogleCallback(ctx context.Context, code string) (*models.AuthResponse, error)

	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, data models.UserUpdateData) (*models.User, error)
	ListUsers(ctx context.Context, page, limit int) ([]*models.User, int, error)
}

type Service struct {
	userRepo          RepositoryInterface
	emailer           emailSvc.ServiceInterface
	templateManager   *emailSvc.TemplateManager
	jwtSecret         string
	clientOrigin      string
	googleOAuthConfig *oauth2.Config
}

func NewService(
	userRepo RepositoryInterface,
	emailer emailSvc.ServiceInterface,
	tm *emailSvc.TemplateManager,
	jwtSecret string,
	clientOrigin string,
	googleOAuthConfig *oauth2.Config,
) ServiceInterface {
	return &Service{
		userRepo:          userRepo,
		emailer:           emailer,
		templateManager:   tm,
		jwtSecret:         jwtSecret,
		clientOrigin:      clientOrigin,
		googleOAuthConfig: googleOAuthConfig,
	}
}

// googleUserInfo unmarshals the Google userinfo response.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// 1. Check if a rider with that email already exists.
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("service.Signup.FindByEmail: %w", err)
	}
	if err == nil {
		return nil, models.ErrConflict
	}

	// 2. Hash the password.
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service.Signup.HashPassword: %w", err)
	}

	// 3. Create the rider. The store's unique constraint is the backstop if
	// another signup with the same email slipped in after the check.
	newUser := &models.User{
		FullName:     req.FullName,
		Email:        email,
		MobileNumber: req.MobileNumber,
	}
	if req.SocketID != "" {
		newUser.SocketID = &req.SocketID
	}
	createdUser, err := s.userRepo.Create(ctx, newUser, string(hashedPassword))
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("service.Signup.CreateUser: %w", err)
	}
	observability.RegistrationsTotal.WithLabelValues("user").Inc()

	// 4. Send the welcome email off the request path.
	s.sendWelcomeEmail(createdUser.Email, createdUser.FullName)

	return s.generateAuthResponse(createdUser)
}

func (s *Service) sendWelcomeEmail(to, name string) {
	if s.emailer == nil || s.templateManager == nil {
		return
	}
	htmlContent, err := s.templateManager.GenerateRiderWelcomeHTML(emailSvc.TemplateData{
		Name: name,
		Link: s.clientOrigin,
	})
	if err != nil {
		log.Printf("Failed to generate welcome email HTML: %v", err)
		return
	}
	plainTextContent := fmt.Sprintf("Welcome aboard, %s! Your rider account is ready: %s", name, s.clientOrigin)

	go func() {
		if err := s.emailer.SendEmail(context.Background(), to, "Welcome aboard!", plainTextContent, htmlContent); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", to, err)
		}
	}()
}

// generateAuthResponse mints the signed bearer token for a rider.
func (s *Service) generateAuthResponse(user *models.User) (*models.AuthResponse, error) {
	claims := &models.JwtCustomClaims{
		ActorID: user.ID,
		Email:   user.Email,
		Role:    models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenSignedString, err := accessToken.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	user.PasswordHash = "" // do NOT send sensitive info back

	return &models.AuthResponse{
		AccessToken: tokenSignedString,
		User:        user,
	}, nil
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service.Login.FindByEmail: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return s.generateAuthResponse(user)
}

// HandleGoogleLogin returns the consent-screen URL and the state token the
// handler stores in a cookie.
func (s *Service) HandleGoogleLogin() (string, string, error) {
	state, err := utils.GenerateSecureToken(16)
	if err != nil {
		return "", "", fmt.Errorf("service.HandleGoogleLogin: %w", err)
	}
	return s.googleOAuthConfig.AuthCodeURL(state), state, nil
}

// HandleGoogleCallback exchanges the code, fetches the Google profile and
// finds or creates the rider keyed by the external auth-provider id.
func (s *Service) HandleGoogleCallback(ctx context.Context, code string) (*models.AuthResponse, error) {
	token, err := s.googleOAuthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("service.HandleGoogleCallback.Exchange: %w", err)
	}

	client := s.googleOAuthConfig.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("service.HandleGoogleCallback.UserInfo: %w", err)
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("service.HandleGoogleCallback.Decode: %w", err)
	}
	if !info.VerifiedEmail {
		return nil, models.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByAuthProviderID(ctx, "google", info.ID)
	if errors.Is(err, models.ErrNotFound) {
		user, err = s.userRepo.CreateOAuthUser(ctx, &models.User{
			FullName:       info.Name,
			Email:          strings.ToLower(info.Email),
			AuthProvider:   "google",
			AuthProviderID: info.ID,
		})
		if err == nil {
			observability.RegistrationsTotal.WithLabelValues("user").Inc()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("service.HandleGoogleCallback.FindOrCreate: %w", err)
	}

	return s.generateAuthResponse(user)
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service.GetProfile: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, data models.UserUpdateData) (*models.User, error) {
	user, err := s.userRepo.Update(ctx, userID, data)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service.UpdateProfile: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

// ListUsers returns a page of riders for the operations read surface.
func (s *Service) ListUsers(ctx context.Context, page, limit int) ([]*models.User, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	userList, total, err := s.userRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ListUsers: %w", err)
	}
	for _, u := range userList {
		u.PasswordHash = ""
	}
	return userList, total, nil
}
