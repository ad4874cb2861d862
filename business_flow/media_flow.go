package businessflow

import (
	"bytes"
	"context"
	"image"
	"image/color"
	imagedraw "image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"time"

	"github.com/amirphl/Porseman/app/dto"
	"github.com/amirphl/Porseman/models"
	"github.com/amirphl/Porseman/repository"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MediaFlow defines operations for avatar uploads.
type MediaFlow interface {
	UploadAvatar(ctx context.Context, req *dto.UploadAvatarRequest, metadata *ClientMetadata) (*dto.UploadAvatarResponse, error)
	GetAvatar(ctx context.Context, mediaUUID string) (string, []byte, error)
}

// MediaFlowImpl implements MediaFlow.
type MediaFlowImpl struct {
	userRepo  repository.UserRepository
	mediaRepo repository.MediaRepository
}

// NewMediaFlow creates a new media flow instance.
func NewMediaFlow(userRepo repository.UserRepository, mediaRepo repository.MediaRepository) MediaFlow {
	return &MediaFlowImpl{
		userRepo:  userRepo,
		mediaRepo: mediaRepo,
	}
}

const (
	maxAvatarUploadSize = int64(8 * 1024 * 1024) // 8MB
	maxAvatarDim        = 512
)

// UploadAvatar decodes, downscales and stores the caller's avatar, then
// points the user record at the new asset. JPEG, PNG, GIF and WebP inputs
// are accepted; the stored image is always JPEG bounded to 512px.
func (f *MediaFlowImpl) UploadAvatar(ctx context.Context, req *dto.UploadAvatarRequest, metadata *ClientMetadata) (*dto.UploadAvatarResponse, error) {
	if req == nil || req.File == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "file is required", nil)
	}

	user, err := f.userRepo.ByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	if req.FileSize <= 0 {
		return nil, NewBusinessError("INVALID_FILE", "file size is required", nil)
	}
	if req.FileSize > maxAvatarUploadSize {
		return nil, NewBusinessError("FILE_TOO_LARGE", "avatar exceeds 8MB", ErrImageTooLarge)
	}

	limited := io.LimitReader(req.File, maxAvatarUploadSize+1)
	img, _, err := image.Decode(limited)
	if err != nil {
		return nil, NewBusinessError("INVALID_FILE_TYPE", "unsupported image format", ErrUnsupportedImageFormat)
	}

	scaled := resizeAvatar(img, maxAvatarDim)
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, scaled, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}

	bounds := scaled.Bounds()
	asset := models.MediaAsset{
		UUID:        uuid.New(),
		OwnerID:     user.ID,
		ContentType: "image/jpeg",
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		SizeBytes:   int64(buf.Len()),
		Data:        buf.Bytes(),
	}

	if err := f.mediaRepo.Save(ctx, &asset); err != nil {
		return nil, err
	}

	user.AvatarID = &asset.ID
	if err := f.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return &dto.UploadAvatarResponse{
		Message:   "Avatar uploaded successfully",
		UUID:      asset.UUID.String(),
		MimeType:  asset.ContentType,
		SizeBytes: asset.SizeBytes,
		Width:     asset.Width,
		Height:    asset.Height,
		CreatedAt: asset.CreatedAt.Format(time.RFC3339),
	}, nil
}

// GetAvatar returns an avatar's content type and bytes by asset UUID
func (f *MediaFlowImpl) GetAvatar(ctx context.Context, mediaUUID string) (string, []byte, error) {
	if mediaUUID == "" {
		return "", nil, NewBusinessError("INVALID_UUID", "media uuid is required", nil)
	}

	id, err := uuid.Parse(mediaUUID)
	if err != nil {
		return "", nil, NewBusinessError("INVALID_UUID", "media uuid is malformed", err)
	}

	asset, err := f.mediaRepo.ByUUID(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if asset == nil {
		return "", nil, NewBusinessError("MEDIA_NOT_FOUND", "media not found", ErrMediaNotFound)
	}

	return asset.ContentType, asset.Data, nil
}

func resizeAvatar(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}

	var nw, nh int
	if w >= h {
		nw = maxDim
		nh = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		nh = maxDim
		nw = int(float64(w) * float64(maxDim) / float64(h))
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	imagedraw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, imagedraw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
