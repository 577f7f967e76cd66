package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmitrev/amora/internal/domain"
	"github.com/vmitrev/amora/internal/repository"
	"github.com/vmitrev/amora/internal/storage"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	blobs       storage.BlobStore
	log         zerolog.Logger
	now         func() time.Time
}

func NewProfileService(profileRepo repository.ProfileRepository, blobs storage.BlobStore, log zerolog.Logger) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		blobs:       blobs,
		log:         log,
		now:         time.Now,
	}
}

// Browse lists everyone except the viewer, newest profiles first.
func (s *ProfileService) Browse(ctx context.Context, viewerID uuid.UUID) ([]domain.Profile, error) {
	profiles, err := s.profileRepo.List(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	return profiles, nil
}

func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

type ProfileUpdate struct {
	Name      *string   `json:"name,omitempty"`
	Age       *int      `json:"age,omitempty"`
	Country   *string   `json:"country,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	Interests *[]string `json:"interests,omitempty"`
	Instagram *string   `json:"instagram,omitempty"`
	Discord   *string   `json:"discord,omitempty"`
}

// Update applies a partial edit to the caller's own profile.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*domain.Profile, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		profile.Name = *update.Name
	}
	if update.Age != nil {
		profile.Age = *update.Age
	}
	if update.Country != nil {
		profile.Country = *update.Country
	}
	if update.Bio != nil {
		profile.Bio = *update.Bio
	}
	if update.Interests != nil {
		profile.Interests = *update.Interests
	}
	if update.Instagram != nil {
		profile.Instagram = update.Instagram
	}
	if update.Discord != nil {
		profile.Discord = update.Discord
	}
	profile.UpdatedAt = s.now()

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return profile, nil
}

// AddPhoto uploads one more photo for the caller and appends its URL. The
// first photo ever uploaded becomes the main photo.
func (s *ProfileService) AddPhoto(ctx context.Context, userID uuid.UUID, filename string, data []byte) (*domain.Profile, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(data) > maxPhotoSize {
		return nil, fmt.Errorf("photo exceeds %d bytes", maxPhotoSize)
	}

	path := fmt.Sprintf("profilePhotos/%s/%d_%s", userID, s.now().UnixMilli(), sanitizeFilename(filename))
	url, err := s.blobs.Upload(ctx, path, data, "image/jpeg")
	if err != nil {
		return nil, &UploadError{Path: path, Err: err}
	}

	profile.Photos = append(profile.Photos, url)
	if profile.MainPhoto == "" {
		profile.MainPhoto = url
	}
	profile.UpdatedAt = s.now()

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return profile, nil
}
