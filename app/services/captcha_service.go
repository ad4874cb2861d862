// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wenlng/go-captcha/v2/rotate"
)

// CaptchaService guards the admin login with a rotate captcha. A challenge
// is a pair of base64 images (the scene and the rotated cutout); the client
// submits the angle it rotated the cutout by, and verification checks it
// against the stored target within the configured tolerance. Challenges live
// in memory and are consumed on the first verification attempt, pass or
// fail.
type CaptchaService interface {
	GenerateRotate(ctx context.Context) (*RotateChallenge, error)
	VerifyRotate(ctx context.Context, challengeID string, userAngle float64) bool
}

// RotateChallenge is the client-facing half of a pending challenge
type RotateChallenge struct {
	ID                string
	MasterImageBase64 string
	ThumbImageBase64  string
}

// RotateCaptchaOptions tunes the rotate captcha. Zero values fall back to
// the defaults below.
type RotateCaptchaOptions struct {
	TTL       time.Duration // how long a challenge stays answerable
	Padding   int           // accepted angle deviation in degrees
	ImgSizePx int           // square edge of the generated images
}

const (
	defaultCaptchaTTL     = 2 * time.Minute
	defaultCaptchaPadding = 15
	defaultCaptchaSizePx  = 300
)

type rotateCaptchaService struct {
	rotator rotate.Captcha
	store   *challengeStore
	padding int
}

// NewCaptchaServiceRotate builds the rotate captcha service. Backgrounds are
// generated procedurally so no image assets ship with the binary.
func NewCaptchaServiceRotate(opts RotateCaptchaOptions) (CaptchaService, error) {
	if opts.TTL <= 0 {
		opts.TTL = defaultCaptchaTTL
	}
	if opts.Padding <= 0 {
		opts.Padding = defaultCaptchaPadding
	}
	if opts.ImgSizePx <= 0 {
		opts.ImgSizePx = defaultCaptchaSizePx
	}

	builder := rotate.NewBuilder(
		rotate.WithImageSquareSize(opts.ImgSizePx),
	)
	builder.SetResources(
		rotate.WithImages(rotateBackgrounds(3, opts.ImgSizePx)),
	)

	return &rotateCaptchaService{
		rotator: builder.Make(),
		store:   newChallengeStore(opts.TTL),
		padding: opts.Padding,
	}, nil
}

func (s *rotateCaptchaService) GenerateRotate(ctx context.Context) (*RotateChallenge, error) {
	captData, err := s.rotator.Generate()
	if err != nil {
		return nil, err
	}

	block := captData.GetData()
	if block == nil {
		return nil, err
	}

	masterB64, err := captData.GetMasterImage().ToBase64()
	if err != nil {
		return nil, err
	}
	thumbB64, err := captData.GetThumbImage().ToBase64()
	if err != nil {
		return nil, err
	}

	challengeID := uuid.New().String()
	s.store.put(challengeID, block.Angle)

	return &RotateChallenge{
		ID:                challengeID,
		MasterImageBase64: masterB64,
		ThumbImageBase64:  thumbB64,
	}, nil
}

func (s *rotateCaptchaService) VerifyRotate(ctx context.Context, challengeID string, userAngle float64) bool {
	targetAngle, ok := s.store.take(challengeID)
	if !ok {
		return false
	}

	// The validator works in whole degrees
	return rotate.Validate(int(math.Round(userAngle)), targetAngle, s.padding)
}

// challengeStore holds pending challenges in memory. Entries expire after
// the TTL and are consumed by take, so each challenge answers at most once.
type challengeStore struct {
	mu  sync.Mutex
	m   map[string]challengeEntry
	ttl time.Duration
}

type challengeEntry struct {
	targetAngle int
	expiresAt   time.Time
}

func newChallengeStore(ttl time.Duration) *challengeStore {
	cs := &challengeStore{
		m:   make(map[string]challengeEntry),
		ttl: ttl,
	}
	go cs.sweep()
	return cs
}

func (cs *challengeStore) put(id string, targetAngle int) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.m[id] = challengeEntry{
		targetAngle: targetAngle,
		expiresAt:   time.Now().Add(cs.ttl),
	}
}

// take removes and returns the entry; expired entries report as missing
func (cs *challengeStore) take(id string) (int, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	e, ok := cs.m[id]
	if !ok {
		return 0, false
	}
	delete(cs.m, id)

	if time.Now().After(e.expiresAt) {
		return 0, false
	}
	return e.targetAngle, true
}

func (cs *challengeStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		cs.mu.Lock()
		for id, e := range cs.m {
			if now.After(e.expiresAt) {
				delete(cs.m, id)
			}
		}
		cs.mu.Unlock()
	}
}

// rotateBackgrounds generates scene images procedurally: a radial gradient
// with light noise and two translucent bands, enough texture for the cutout
// edge to be visible.
func rotateBackgrounds(n, size int) []image.Image {
	if n <= 0 {
		n = 1
	}
	imgs := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		imgs = append(imgs, gradientScene(size))
	}
	return imgs
}

func gradientScene(size int) image.Image {
	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	half := float64(size / 2)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) - half
			dy := float64(y) - half
			t := math.Min(math.Sqrt(dx*dx+dy*dy)/half, 1)

			base := uint8(200 - int(150*t))
			noise := uint8(rand.Intn(30))
			rgba.Set(x, y, color.RGBA{R: base + noise/3, G: base, B: 255 - base/2, A: 255})
		}
	}

	fillRect(rgba, size/10, size/10, size/3, size/12, color.RGBA{R: 255, G: 255, B: 255, A: 32})
	fillRect(rgba, size/2, size/3, size/3, size/10, color.RGBA{A: 24})
	return rgba
}

func fillRect(dst *image.RGBA, x, y, w, h int, c color.RGBA) {
	draw.Draw(dst, image.Rect(x, y, x+w, y+h), &image.Uniform{C: c}, image.Point{}, draw.Over)
}
