package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userrepo "github.com/speechfun/speechfun-backend/internal/data/repos/user"
	types "github.com/speechfun/speechfun-backend/internal/domain"
	"github.com/speechfun/speechfun-backend/internal/platform/apierr"
	"github.com/speechfun/speechfun-backend/internal/platform/logger"
)

type ProfileView struct {
	User types.PublicUser `json:"user"`
	Bio  string           `json:"bio"`
}

type UpdateProfileInput struct {
	Bio string `json:"bio"`
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileView, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileView, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, raw []byte) (*ProfileView, error)
}

type profileService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    userrepo.UserRepo
	profileRepo userrepo.ProfileRepo
	avatars     AvatarService
}

func NewProfileService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo userrepo.UserRepo,
	profileRepo userrepo.ProfileRepo,
	avatars AvatarService,
) ProfileService {
	return &profileService{
		db:          db,
		log:         log.With("service", "ProfileService"),
		userRepo:    userRepo,
		profileRepo: profileRepo,
		avatars:     avatars,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileView, error) {
	return s.view(ctx, nil, userID)
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileView, error) {
	var out *ProfileView
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.profileRepo.UpsertBio(ctx, tx, userID, input.Bio); err != nil {
			return err
		}
		view, err := s.view(ctx, tx, userID)
		if err != nil {
			return err
		}
		out = view
		return nil
	})
	if txErr != nil {
		return nil, apierr.From(txErr)
	}
	return out, nil
}

func (s *profileService) UpdateAvatar(ctx context.Context, userID uuid.UUID, raw []byte) (*ProfileView, error) {
	if s.avatars == nil {
		return nil, apierr.ServiceUnavailable(fmt.Errorf("avatar storage is not configured"))
	}

	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, apierr.From(err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("account no longer exists"))
	}

	if err := s.avatars.CreateAndUploadAvatarFromImage(ctx, nil, users[0], raw); err != nil {
		return nil, apierr.From(err)
	}
	return s.view(ctx, nil, userID)
}

func (s *profileService) view(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*ProfileView, error) {
	users, err := s.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
	if err != nil {
		return nil, apierr.From(err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("account no longer exists"))
	}

	view := &ProfileView{User: users[0].Public()}
	profiles, err := s.profileRepo.GetByUserIDs(ctx, tx, []uuid.UUID{userID})
	if err != nil {
		return nil, apierr.From(err)
	}
	if len(profiles) > 0 {
		view.Bio = profiles[0].Bio
	}
	return view, nil
}
