package storage

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Bucket names. Each bucket is publicly readable once a path is known.
const (
	BucketAvatars    = "avatars"
	BucketResumes    = "resumes"
	BucketPortfolio  = "portfolio"
	BucketActivities = "activities"
	BucketApks       = "apks"
)

// ObjectStore defines the file storage operations handlers depend on. The
// Supabase gateway implements it; tests swap in a fake.
type ObjectStore interface {
	// Upload stores an object and returns its bucket-relative path.
	Upload(bucket, path string, r io.Reader) (string, error)

	// Remove deletes an object. Best-effort for callers: a failed removal is
	// logged, never fatal to the owning row's lifecycle.
	Remove(bucket, path string) error

	// PublicURL reconstructs the absolute URL for a stored path.
	PublicURL(bucket, path string) string
}

var buckets = map[string]bool{
	BucketAvatars:    true,
	BucketResumes:    true,
	BucketPortfolio:  true,
	BucketActivities: true,
	BucketApks:       true,
}

// KnownBucket reports whether a bucket name is one of ours.
func KnownBucket(bucket string) bool {
	return buckets[bucket]
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// ObjectName produces a collision-free name for an uploaded file, keeping the
// original extension. Uniqueness is caller-assigned by design: buckets have
// no server-side dedup.
func ObjectName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return uuid.NewString() + ext
}

// ApkObjectName produces a friendly APK name from the app name (or the
// original file name) plus a timestamp, e.g. "my_app-1706713200000.apk".
func ApkObjectName(appName, original string) string {
	base := appName
	if base == "" {
		base = strings.TrimSuffix(original, filepath.Ext(original))
	}
	base = nonAlnum.ReplaceAllString(strings.ToLower(base), "_")
	base = strings.Trim(base, "_")
	if base == "" {
		base = "app"
	}
	return fmt.Sprintf("%s-%d.apk", base, time.Now().UnixMilli())
}

// ValidateApk rejects anything that is not an .apk file. Image buckets accept
// whatever the owner picks; only app binaries are type-checked.
func ValidateApk(filename string) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".apk") {
		return fmt.Errorf("not a valid .apk file: %s", filename)
	}
	return nil
}
