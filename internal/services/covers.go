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
	"unicode"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"gorm.io/gorm"

	gcsclient "github.com/ostrauer/briefshelf-backend/internal/clients/gcs"
	catalogrepo "github.com/ostrauer/briefshelf-backend/internal/data/repos/catalog"
	types "github.com/ostrauer/briefshelf-backend/internal/domain"
	pkgerrors "github.com/ostrauer/briefshelf-backend/internal/pkg/errors"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

const (
	coverWidth  = 400
	coverHeight = 600
)

// placeholderPalette backs generated covers. Color choice is a hash of the
// title so re-generating a placeholder is stable.
var placeholderPalette = []color.NRGBA{
	{R: 0x2D, G: 0x4E, B: 0x6F, A: 0xFF},
	{R: 0x6F, G: 0x2D, B: 0x4E, A: 0xFF},
	{R: 0x3A, G: 0x6B, B: 0x35, A: 0xFF},
	{R: 0x8A, G: 0x5A, B: 0x18, A: 0xFF},
	{R: 0x4E, G: 0x3A, B: 0x6F, A: 0xFF},
	{R: 0x1F, G: 0x6E, B: 0x6B, A: 0xFF},
}

// CoverService owns book cover assets: uploaded images and generated
// placeholders for books that have none.
type CoverService interface {
	UploadCover(ctx context.Context, book *types.Book, raw []byte) error
	DeleteCover(ctx context.Context, book *types.Book) error
	EnsurePlaceholder(ctx context.Context, book *types.Book) error
}

type coverService struct {
	db     *gorm.DB
	log    *logger.Logger
	books  catalogrepo.BookRepo
	bucket gcsclient.BucketService

	fontFace font.Face
}

func NewCoverService(db *gorm.DB, log *logger.Logger, books catalogrepo.BookRepo, bucket gcsclient.BucketService) (CoverService, error) {
	serviceLog := log.With("service", "CoverService")

	var face font.Face
	fontPath := strings.TrimSpace(os.Getenv("COVER_FONT"))
	if fontPath != "" {
		loaded, err := loadFontFace(fontPath, 72)
		if err != nil {
			return nil, fmt.Errorf("could not load cover font: %w", err)
		}
		face = loaded
	} else {
		serviceLog.Warn("COVER_FONT not set, placeholder covers disabled")
	}

	return &coverService{
		db:       db,
		log:      serviceLog,
		books:    books,
		bucket:   bucket,
		fontFace: face,
	}, nil
}

func (cs *coverService) UploadCover(ctx context.Context, book *types.Book, raw []byte) error {
	if book == nil {
		return fmt.Errorf("%w: book required", pkgerrors.ErrInvalidArgument)
	}

	processed, err := processUploadedCover(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", pkgerrors.ErrInvalidArgument, err)
	}

	oldKey := strings.TrimSpace(book.CoverBucketKey)

	// Versioned key so CDN caches never serve a stale cover.
	newKey := fmt.Sprintf("book_cover/%s/%d.png", book.ID.String(), time.Now().UnixNano())
	if err := cs.bucket.UploadFile(ctx, newKey, bytes.NewReader(processed.Bytes())); err != nil {
		return fmt.Errorf("failed to upload cover: %w", err)
	}

	coverURL := cs.bucket.GetPublicURL(newKey)
	if err := cs.books.UpdateCover(ctx, nil, book.ID, newKey, coverURL); err != nil {
		return fmt.Errorf("record cover: %w", err)
	}
	book.CoverBucketKey = newKey
	book.CoverURL = coverURL

	if oldKey != "" && oldKey != newKey {
		if err := cs.bucket.DeleteFile(ctx, oldKey); err != nil {
			cs.log.Warn("failed to delete old cover (ignored)", "old_key", oldKey, "error", err)
		}
	}
	return nil
}

func (cs *coverService) DeleteCover(ctx context.Context, book *types.Book) error {
	if book == nil {
		return fmt.Errorf("%w: book required", pkgerrors.ErrInvalidArgument)
	}
	key := strings.TrimSpace(book.CoverBucketKey)
	if key == "" {
		return nil
	}
	if err := cs.bucket.DeleteFile(ctx, key); err != nil {
		return fmt.Errorf("delete cover object: %w", err)
	}
	if err := cs.books.UpdateCover(ctx, nil, book.ID, "", ""); err != nil {
		return fmt.Errorf("clear cover: %w", err)
	}
	book.CoverBucketKey = ""
	book.CoverURL = ""
	return nil
}

// EnsurePlaceholder renders and uploads a generated cover for a book with no
// cover yet. No-op when a cover exists or no font is configured.
func (cs *coverService) EnsurePlaceholder(ctx context.Context, book *types.Book) error {
	if book == nil {
		return fmt.Errorf("%w: book required", pkgerrors.ErrInvalidArgument)
	}
	if book.CoverBucketKey != "" || cs.fontFace == nil {
		return nil
	}

	buf, err := cs.renderPlaceholder(book)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("book_cover/%s/%d.png", book.ID.String(), time.Now().UnixNano())
	if err := cs.bucket.UploadFile(ctx, key, bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("failed to upload placeholder cover: %w", err)
	}
	coverURL := cs.bucket.GetPublicURL(key)
	if err := cs.books.UpdateCover(ctx, nil, book.ID, key, coverURL); err != nil {
		return fmt.Errorf("record placeholder cover: %w", err)
	}
	book.CoverBucketKey = key
	book.CoverURL = coverURL
	return nil
}

func (cs *coverService) renderPlaceholder(book *types.Book) (bytes.Buffer, error) {
	dc := gg.NewContext(coverWidth, coverHeight)

	dc.SetColor(placeholderColor(book.Title))
	dc.DrawRectangle(0, 0, coverWidth, coverHeight)
	dc.Fill()

	initials := titleInitials(book.Title)
	dc.SetFontFace(cs.fontFace)
	tw, th := dc.MeasureString(initials)
	dc.SetColor(color.White)
	dc.DrawString(initials, coverWidth/2-tw/2, coverHeight/2+th/2)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

// processUploadedCover decodes, center-crops to the cover aspect ratio and
// resizes to the canonical cover dimensions.
func processUploadedCover(raw []byte) (bytes.Buffer, error) {
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	// Crop to 2:3, keeping the center.
	cropW, cropH := w, h
	if w*coverHeight > h*coverWidth {
		cropW = h * coverWidth / coverHeight
	} else {
		cropH = w * coverHeight / coverWidth
	}
	x0 := b.Min.X + (w-cropW)/2
	y0 := b.Min.Y + (h-cropH)/2

	cropRect := image.Rect(0, 0, cropW, cropH)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, coverWidth, coverHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(coverWidth, coverHeight)
	dc.DrawImage(dst, 0, 0)
	if err := dc.EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}
	return out, nil
}

func placeholderColor(title string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(title))))
	return placeholderPalette[int(h.Sum32())%len(placeholderPalette)]
}

func titleInitials(title string) string {
	words := strings.Fields(title)
	var sb strings.Builder
	taken := 0
	for _, w := range words {
		r := []rune(w)[0]
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			continue
		}
		sb.WriteRune(unicode.ToUpper(r))
		taken++
		if taken >= 2 {
			break
		}
	}
	if taken == 0 {
		return "?"
	}
	return sb.String()
}

func loadFontFace(path string, points float64) (font.Face, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	parsed, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return truetype.NewFace(parsed, &truetype.Options{Size: points}), nil
}
