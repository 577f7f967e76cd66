package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmitrev/amora/internal/domain"
	"github.com/vmitrev/amora/internal/repository"
	"github.com/vmitrev/amora/internal/storage"
	"golang.org/x/crypto/argon2"
)

const maxPhotoSize = 10 << 20 // 10 MB

type AuthService struct {
	profileRepo repository.ProfileRepository
	blobs       storage.BlobStore
	jwtSecret   []byte
	log         zerolog.Logger
	now         func() time.Time
}

func NewAuthService(profileRepo repository.ProfileRepository, blobs storage.BlobStore, jwtSecret string, log zerolog.Logger) *AuthService {
	return &AuthService{
		profileRepo: profileRepo,
		blobs:       blobs,
		jwtSecret:   []byte(jwtSecret),
		log:         log,
		now:         time.Now,
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	Name      string
	Age       int
	Gender    string
	Country   string
	Bio       string
	Interests []string
}

// PhotoUpload is one raw photo submitted at registration.
type PhotoUpload struct {
	Filename string
	Data     []byte
}

type AuthResponse struct {
	Profile     *domain.Profile `json:"profile"`
	AccessToken string          `json:"access_token"`
	// PhotosSkipped counts photos that failed to upload. The profile is
	// still created; the caller surfaces this as a warning.
	PhotosSkipped int `json:"photos_skipped,omitempty"`
}

// Register creates a profile, uploading photos first. Individual photo
// failures (oversized file, blob store error) skip the photo but never
// abort registration.
func (s *AuthService) Register(ctx context.Context, input RegisterInput, photos []PhotoUpload) (*AuthResponse, error) {
	existing, err := s.profileRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	id := uuid.New()
	photoURLs, skipped := s.uploadPhotos(ctx, id, photos)

	now := s.now()
	profile := &domain.Profile{
		ID:           id,
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
		Age:          input.Age,
		Gender:       input.Gender,
		Country:      input.Country,
		Bio:          input.Bio,
		Interests:    input.Interests,
		Photos:       photoURLs,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if len(photoURLs) > 0 {
		profile.MainPhoto = photoURLs[0]
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("creating profile: %w", err)
	}

	token, err := s.generateToken(profile.ID)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &AuthResponse{Profile: profile, AccessToken: token, PhotosSkipped: skipped}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrInvalidCreds
	}

	if !verifyPassword(password, profile.PasswordHash) {
		return nil, ErrInvalidCreds
	}

	token, err := s.generateToken(profile.ID)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &AuthResponse{Profile: profile, AccessToken: token}, nil
}

func (s *AuthService) uploadPhotos(ctx context.Context, userID uuid.UUID, photos []PhotoUpload) ([]string, int) {
	urls := []string{}
	skipped := 0
	for _, photo := range photos {
		if len(photo.Data) > maxPhotoSize {
			s.log.Warn().Str("file", photo.Filename).Msg("photo too large, skipping")
			skipped++
			continue
		}
		path := fmt.Sprintf("profilePhotos/%s/%d_%s", userID, s.now().UnixMilli(), sanitizeFilename(photo.Filename))
		url, err := s.blobs.Upload(ctx, path, photo.Data, "image/jpeg")
		if err != nil {
			s.log.Warn().Err(err).Str("file", photo.Filename).Msg("photo upload failed, skipping")
			skipped++
			continue
		}
		urls = append(urls, url)
	}
	return urls, skipped
}

func (s *AuthService) generateToken(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": s.now().Add(24 * time.Hour).Unix(),
		"iat": s.now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)

	return fmt.Sprintf("%s:%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func verifyPassword(password, encoded string) bool {
	saltB64, hashB64, ok := strings.Cut(encoded, ":")
	if !ok {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(hashB64)
	if err != nil {
		return false
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return subtle.ConstantTimeCompare(hash, expectedHash) == 1
}
