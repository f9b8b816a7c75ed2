package services

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"manager-account-api/internal/apperror"
	"manager-account-api/internal/application/ports"
	"manager-account-api/internal/domain/account"
	"manager-account-api/internal/infrastructure/metrics"
)

const (
	maxBaseNameLen  = 100
	maxImageSize    = 5 << 20
	msgImageTooBig  = "Profile image must not exceed 5MB"
	msgImageNotImg  = "Profile image must be an image"
	msgImageUnsaved = "Could not upload profile image"
)

var (
	windowsReserved = map[string]struct{}{
		"con": {}, "prn": {}, "aux": {}, "nul": {},
		"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {}, "com6": {}, "com7": {}, "com8": {}, "com9": {},
		"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {}, "lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
	}
	fileSafeRe    = regexp.MustCompile(`[^A-Za-z0-9\.\_\- ]+`)
	leadingDotsRe = regexp.MustCompile(`^\.+`)
)

type ProfileImageService struct {
	storage    ports.ObjectStorage
	folder     string
	pathPrefix string
	mCounter   *prometheus.CounterVec
	now        func() time.Time
}

// NewProfileImageService stores pictures under folder. pathPrefix is cut
// from the public URL so accounts keep a path relative to the image host.
func NewProfileImageService(
	storage ports.ObjectStorage,
	folder string,
	pathPrefix string,
	mCounter *prometheus.CounterVec,
) ports.ProfileImages {
	return &ProfileImageService{
		storage:    storage,
		folder:     strings.Trim(folder, "/"),
		pathPrefix: pathPrefix,
		mCounter:   mCounter,
		now:        time.Now,
	}
}

func (pis *ProfileImageService) Upload(
	ctx context.Context,
	accountID account.ID,
	in *multipart.FileHeader,
) (string, error) {
	if in.Size > maxImageSize {
		return "", apperror.Validation(msgImageTooBig, []apperror.Detail{{
			Field: "profileImage", Rule: "max", Message: msgImageTooBig,
		}})
	}
	contentType := in.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", apperror.Validation(msgImageNotImg, []apperror.Detail{{
			Field: "profileImage", Rule: "image", Message: msgImageNotImg,
		}})
	}

	f, err := in.Open()
	if err != nil {
		return "", apperror.Internal(msgImageUnsaved, err)
	}
	defer f.Close()

	key := pis.genSafeStorageKey(filepath.Base(sanitizeFileName(in.Filename)), contentType, accountID)
	if err = pis.storage.PutObject(ctx, key, contentType, f, in.Size); err != nil {
		return "", apperror.Internal(msgImageUnsaved, err)
	}

	pis.mCounter.WithLabelValues(metrics.ProfileImageUploaded).Inc()

	return strings.TrimPrefix(pis.storage.GetPublicURL(key), pis.pathPrefix), nil
}

// genSafeStorageKey: "<folder>/YYYY/MM/DD/<ts-nanosec>/<accountid>/<filename>.ext"
func (pis *ProfileImageService) genSafeStorageKey(
	fileName string,
	contentType string,
	accountID account.ID,
) string {
	clean := strings.TrimSpace(fileName)
	clean = strings.Map(func(r rune) rune {
		if r == '\x00' || r < 0x20 {
			return -1
		}
		return r
	}, clean)
	clean = leadingDotsRe.ReplaceAllString(clean, "")

	ext := strings.ToLower(filepath.Ext(clean))
	base := strings.TrimSuffix(clean, ext)

	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}

	base = fileSafeRe.ReplaceAllString(base, "-")
	base = strings.Trim(base, "- .")

	if len(base) > maxBaseNameLen {
		base = base[:maxBaseNameLen]
	}
	if base == "" {
		base = "image"
	}

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if ext == "" {
		ext = ".bin"
	}

	now := pis.now().UTC()
	return fmt.Sprintf(
		"%s/%04d/%02d/%02d/%s/%s/%s",
		pis.folder,
		now.Year(), int(now.Month()), now.Day(),
		now.Format("20060102T150405.000000000Z"),
		fileSafeRe.ReplaceAllString(strings.ToLower(accountID), "-"),
		base+ext,
	)
}

// sanitizeFileName reduces a client file name to lowercase ASCII
func sanitizeFileName(original string) string {
	if original == "" {
		return "file"
	}

	s := strings.TrimSpace(original)
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Base(s)

	if s == "." || s == ".." || s == "" {
		return "file"
	}

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	s, _, _ = transform.String(t, s)

	ext := strings.ToLower(path.Ext(s))
	base := strings.TrimSuffix(s, ext)

	// keep [a-z0-9], fold '-', '_', dots and spaces into single dashes
	var b strings.Builder
	b.Grow(len(base))
	prevDash := false
	for _, r := range base {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			prevDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			prevDash = false
		case r == '-' || r == '_':
			if !prevDash {
				b.WriteRune('-')
				prevDash = true
			}
		case r == '.' || unicode.IsSpace(r):
			if !prevDash {
				b.WriteRune('-')
				prevDash = true
			}
		default:
		}
	}
	base = strings.Trim(b.String(), "-")

	if base == "" {
		base = "file"
	}
	if _, bad := windowsReserved[base]; bad {
		base = "_" + base
	}

	for utf8.RuneCountInString(base)+len(ext) > maxBaseNameLen {
		_, size := utf8.DecodeLastRuneInString(base)
		if size <= 0 || size > len(base) {
			break
		}
		base = base[:len(base)-size]
	}

	return base + ext
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }
