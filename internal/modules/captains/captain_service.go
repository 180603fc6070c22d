package captains

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ride-hailing/internal/models"
	"ride-hailing/internal/observability"
	emailSvc "ride-hailing/pkg/email"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ServiceInterface defines methods for captain business logic.
type ServiceInterface interface {
	Register(ctx context.Context, req models.RegisterCaptainRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	GetProfile(ctx context.Context, captainID string) (*models.Captain, error)
	UpdateStatus(ctx context.Context, captainID string, status models.CaptainStatus) (*models.Captain, error)
}

type Service struct {
	captainRepo     RepositoryInterface
	emailer         emailSvc.ServiceInterface
	templateManager *emailSvc.TemplateManager
	jwtSecret       string
	clientOrigin    string
}

func NewService(
	captainRepo RepositoryInterface,
	emailer emailSvc.ServiceInterface,
	tm *emailSvc.TemplateManager,
	jwtSecret string,
	clientOrigin string,
) ServiceInterface {
	return &Service{
		captainRepo:     captainRepo,
		emailer:         emailer,
		templateManager: tm,
		jwtSecret:       jwtSecret,
		clientOrigin:    clientOrigin,
	}
}

// Register creates a captain, with its vehicle and location when supplied,
// atomically. New captains start INACTIVE.
func (s *Service) Register(ctx context.Context, req models.RegisterCaptainRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service.Register.HashPassword: %w", err)
	}

	captain := &models.Captain{
		Email:     email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		SocketID:  req.SocketID,
		Status:    models.CaptainStatusInactive,
	}
	if req.Vehicle != nil {
		captain.Vehicle = &models.Vehicle{
			Color:       req.Vehicle.Color,
			Plate:       strings.ToUpper(req.Vehicle.Plate),
			Capacity:    req.Vehicle.Capacity,
			VehicleType: req.Vehicle.VehicleType,
		}
	}
	if req.Location != nil {
		captain.Location = &models.Location{
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
		}
	}

	created, err := s.captainRepo.CreateWithAssets(ctx, captain, string(hashedPassword))
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("service.Register: %w", err)
	}
	observability.RegistrationsTotal.WithLabelValues("captain").Inc()
	log.Printf("New captain registered: %s", email)

	s.sendWelcomeEmail(created.Email, created.FirstName)

	return s.generateAuthResponse(created)
}

func (s *Service) sendWelcomeEmail(to, name string) {
	if s.emailer == nil || s.templateManager == nil {
		return
	}
	htmlContent, err := s.templateManager.GenerateCaptainWelcomeHTML(emailSvc.TemplateData{
		Name: name,
		Link: s.clientOrigin,
	})
	if err != nil {
		log.Printf("Failed to generate captain welcome email HTML: %v", err)
		return
	}
	plainTextContent := fmt.Sprintf("Welcome, Captain %s! Your account has been created: %s", name, s.clientOrigin)

	go func() {
		if err := s.emailer.SendEmail(context.Background(), to, "Welcome, Captain!", plainTextContent, htmlContent); err != nil {
			log.Printf("Failed to send captain welcome email to %s: %v", to, err)
		}
	}()
}

func (s *Service) generateAuthResponse(captain *models.Captain) (*models.AuthResponse, error) {
	claims := &models.JwtCustomClaims{
		ActorID: captain.ID,
		Email:   captain.Email,
		Role:    models.RoleCaptain,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenSignedString, err := accessToken.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	captain.PasswordHash = ""

	return &models.AuthResponse{
		AccessToken: tokenSignedString,
		Captain:     captain,
	}, nil
}

// Login verifies credentials. A SUSPENDED captain is denied regardless of
// password correctness; suspension does not gate ride actions elsewhere.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	captain, err := s.captainRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service.Login.FindByEmail: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(captain.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	if captain.Status == models.CaptainStatusSuspended {
		return nil, models.ErrCaptainSuspended
	}

	return s.generateAuthResponse(captain)
}

func (s *Service) GetProfile(ctx context.Context, captainID string) (*models.Captain, error) {
	captain, err := s.captainRepo.FindByID(ctx, captainID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service.GetProfile: %w", err)
	}
	captain.PasswordHash = ""
	return captain, nil
}

// UpdateStatus changes availability. The request DTO restricts the target to
// ACTIVE/INACTIVE/BUSY; suspension is an operations action, not self-service.
func (s *Service) UpdateStatus(ctx context.Context, captainID string, status models.CaptainStatus) (*models.Captain, error) {
	captain, err := s.captainRepo.UpdateStatus(ctx, captainID, status)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service.UpdateStatus: %w", err)
	}
	captain.PasswordHash = ""
	return captain, nil
}
