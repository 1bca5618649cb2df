package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// MediaService turns a course's stored video reference into a URL the viewer can play.
type MediaService interface {
	// ResolveURL passes absolute http(s) URLs through and presigns storage keys.
	ResolveURL(ctx context.Context, ref string) (string, error)
}

type mediaService struct {
	presignClient *s3.PresignClient
	bucketName    string
	expiry        time.Duration
	logger        zerolog.Logger
}

// NewMediaService creates a MediaService. A nil s3Client disables presigning, and
// only absolute URLs resolve.
func NewMediaService(s3Client *s3.Client, bucketName string, expiry time.Duration, logger zerolog.Logger) MediaService {
	var presignClient *s3.PresignClient
	if s3Client != nil {
		presignClient = s3.NewPresignClient(s3Client)
	}
	return &mediaService{
		presignClient: presignClient,
		bucketName:    bucketName,
		expiry:        expiry,
		logger:        logger.With().Str("service", "MediaService").Logger(),
	}
}

func (s *mediaService) ResolveURL(ctx context.Context, ref string) (string, error) {
	if strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://") {
		return ref, nil
	}
	if s.presignClient == nil {
		return "", ErrMediaUnavailable
	}
	key := strings.TrimPrefix(ref, "/")
	resp, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		s.logger.Error().Err(err).Str("storage_path", key).Msg("Failed to generate presigned URL")
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return resp.URL, nil
}
