package helpers

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	AvatarFolder = "lakbaycavite/avatars"
	EventsFolder = "lakbaycavite/events"
	PostsFolder  = "lakbaycavite/posts"
)

// UploadImage streams a multipart file to Cloudinary and returns the
// durable secure URL to persist on the record.
func UploadImage(ctx context.Context, cld *cloudinary.Cloudinary, file multipart.File, folder string) (string, error) {
	uploadResult, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: folder,
		Tags:   []string{"lakbay-cavite"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %v", err)
	}
	return uploadResult.SecureURL, nil
}

// GenerateVerificationCode returns a random 6-digit code for email
// verification and password resets.
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %v", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
