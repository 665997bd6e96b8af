package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"os"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"gorm.io/gorm"

	userrepo "github.com/speechfun/speechfun-backend/internal/data/repos/user"
	types "github.com/speechfun/speechfun-backend/internal/domain"
	"github.com/speechfun/speechfun-backend/internal/platform/gcp"
	"github.com/speechfun/speechfun-backend/internal/platform/logger"
)

// AvatarService draws the round initials avatar every account gets at
// registration and handles custom uploads from the profile screen.
type AvatarService interface {
	CreateAndUploadAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error
	CreateAndUploadAvatarFromImage(ctx context.Context, tx *gorm.DB, user *types.User, raw []byte) error
}

type avatarService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      userrepo.UserRepo
	bucketService gcp.BucketService
	fontFace      font.Face
}

// Bright, kid-friendly backgrounds. The pick is a stable hash of the
// username so the same account always gets the same color.
var avatarPalette = []color.NRGBA{
	{R: 0x5B, G: 0x8D, B: 0xEF, A: 0xFF},
	{R: 0xEF, G: 0x5B, B: 0x6E, A: 0xFF},
	{R: 0x3F, G: 0xB6, B: 0x8A, A: 0xFF},
	{R: 0xF2, G: 0xA6, B: 0x3C, A: 0xFF},
	{R: 0x9B, G: 0x6C, B: 0xE3, A: 0xFF},
	{R: 0x2C, G: 0xA8, B: 0xC2, A: 0xFF},
}

func NewAvatarService(db *gorm.DB, log *logger.Logger, userRepo userrepo.UserRepo, bucketService gcp.BucketService) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT"))
	if fontPath == "" {
		return nil, fmt.Errorf("Env var AVATAR_FONT is empty")
	}
	serviceLog.Info("Loading avatar font", "font", fontPath)

	face, err := loadFontFace(fontPath, 206)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	return &avatarService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		bucketService: bucketService,
		fontFace:      face,
	}, nil
}

func (as *avatarService) CreateAndUploadAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error {
	buf, err := as.generateInitialsAvatar(user)
	if err != nil {
		return err
	}
	return as.storeAvatar(ctx, tx, user, buf)
}

func (as *avatarService) CreateAndUploadAvatarFromImage(ctx context.Context, tx *gorm.DB, user *types.User, raw []byte) error {
	processed, err := processUploadedAvatar(raw, 512)
	if err != nil {
		return err
	}
	return as.storeAvatar(ctx, tx, user, processed)
}

func (as *avatarService) storeAvatar(ctx context.Context, tx *gorm.DB, user *types.User, buf bytes.Buffer) error {
	oldKey := strings.TrimSpace(user.AvatarBucketKey)

	// Versioned key so the CDN never serves a stale object.
	newKey := fmt.Sprintf("user_avatar/%s/%d.png", user.ID.String(), time.Now().UnixNano())

	if err := as.bucketService.UploadFile(ctx, gcp.BucketCategoryAvatar, newKey, bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("failed to upload user avatar: %w", err)
	}

	user.AvatarBucketKey = newKey
	user.AvatarURL = as.bucketService.GetPublicURL(gcp.BucketCategoryAvatar, newKey)
	if err := as.userRepo.UpdateAvatarFields(ctx, tx, user.ID, user.AvatarBucketKey, user.AvatarURL); err != nil {
		return err
	}

	// Best-effort delete of the replaced object.
	if oldKey != "" && oldKey != newKey {
		if err := as.bucketService.DeleteFile(ctx, gcp.BucketCategoryAvatar, oldKey); err != nil {
			as.log.Warn("failed to delete old avatar (ignored)", "oldKey", oldKey, "error", err)
		}
	}
	return nil
}

func (as *avatarService) generateInitialsAvatar(user *types.User) (bytes.Buffer, error) {
	const size = 512
	var buf bytes.Buffer

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	dc.SetColor(pickAvatarColor(user.Username))
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	initials := computeInitials(user.FirstName, user.LastName, user.Username)

	dc.SetFontFace(as.fontFace)
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(size)/2, float64(size)/2

	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2)+5, cy+(th/2)-10)

	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func processUploadedAvatar(raw []byte, size int) (bytes.Buffer, error) {
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, fmt.Errorf("decode image: %w", err)
	}

	// Center-crop to square
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	side := w
	if h < w {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	if err := dc.EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}
	return out, nil
}

func pickAvatarColor(username string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(username))))
	return avatarPalette[int(h.Sum32())%len(avatarPalette)]
}

func computeInitials(first, last, username string) string {
	if first == "" && last == "" {
		if username != "" {
			return strings.ToUpper(username[:1])
		}
		return "?"
	}
	fInit := ""
	if len(first) > 0 {
		fInit = strings.ToUpper(first[:1])
	}
	lInit := ""
	if len(last) > 0 {
		lInit = strings.ToUpper(last[:1])
	}
	return fInit + lInit
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return face, nil
}
