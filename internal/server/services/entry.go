package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"keepsafe/internal/common"
	sc "keepsafe/internal/server/config"
	"keepsafe/internal/server/models"
	"keepsafe/internal/server/repositories/repomanager"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// EntryService persists journal entries, answers feed queries and hands out
// presigned upload URLs for entry media.
type EntryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewEntryService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *EntryService {
	return &EntryService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

func (s *EntryService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// GetPresignedPutURL presigns a PUT for the given storage key and returns
// the upload URL together with the public URL the object will be served on.
func (s *EntryService) GetPresignedPutURL(ctx context.Context, key, contentType string) (string, string, error) {

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket

	// Presigned PUT
	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(15*time.Minute))

	if err != nil {
		return "", "", err
	}

	return req.URL, s.config.S3PublicBaseURL + "/" + key, nil
}

// CreateEntry persists a new entry for the owner. The owner is always the
// first element of the shared set, matching what clients compute locally.
func (s *EntryService) CreateEntry(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	if len(entry.SharedWith) == 0 || entry.SharedWith[0] != entry.UserID {
		entry.SharedWith = append([]string{entry.UserID}, entry.SharedWith...)
	}

	repo := s.repomanager.Entries(s.db)
	created, err := repo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("error creating entry: %w", err)
	}

	return created, nil
}

// ListEntries returns the newest entries visible to the user.
func (s *EntryService) ListEntries(ctx context.Context, userID string, limit int) ([]*models.Entry, error) {
	repo := s.repomanager.Entries(s.db)
	entries, err := repo.ListVisible(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %w", err)
	}
	return entries, nil
}

// canSee reports whether the user may read the entry and its social threads.
func (s *EntryService) canSee(ctx context.Context, entry *models.Entry, userID string) (bool, error) {
	if entry.UserID == userID {
		return true, nil
	}
	if entry.IsPrivate {
		return false, nil
	}
	for _, id := range entry.SharedWith {
		if id == userID {
			return true, nil
		}
	}
	if !entry.SharedWithEveryone {
		return false, nil
	}

	friends, err := s.repomanager.Friendships(s.db).ListFriendIDs(ctx, entry.UserID)
	if err != nil {
		return false, err
	}
	for _, id := range friends {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *EntryService) getVisibleEntry(ctx context.Context, entryID, userID string) (*models.Entry, error) {
	entry, err := s.repomanager.Entries(s.db).GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	ok, err := s.canSee(ctx, entry, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrNotFound
	}
	return entry, nil
}

// React stores the user's reaction on an entry they can see.
func (s *EntryService) React(ctx context.Context, entryID, userID, reactionType string) (*models.Reaction, error) {
	if _, err := s.getVisibleEntry(ctx, entryID, userID); err != nil {
		return nil, err
	}

	reaction := &models.Reaction{EntryID: entryID, UserID: userID, Type: reactionType}
	return s.repomanager.Social(s.db).UpsertReaction(ctx, reaction)
}

// ListReactions returns the reactions on an entry the user can see.
func (s *EntryService) ListReactions(ctx context.Context, entryID, userID string) ([]*models.Reaction, error) {
	if _, err := s.getVisibleEntry(ctx, entryID, userID); err != nil {
		return nil, err
	}
	return s.repomanager.Social(s.db).ListReactions(ctx, entryID)
}

// Comment stores the user's comment on an entry they can see.
func (s *EntryService) Comment(ctx context.Context, entryID, userID, content string) (*models.Comment, error) {
	if _, err := s.getVisibleEntry(ctx, entryID, userID); err != nil {
		return nil, err
	}

	comment := &models.Comment{EntryID: entryID, UserID: userID, Content: content}
	return s.repomanager.Social(s.db).CreateComment(ctx, comment)
}

// ListComments returns the comments on an entry the user can see.
func (s *EntryService) ListComments(ctx context.Context, entryID, userID string) ([]*models.Comment, error) {
	if _, err := s.getVisibleEntry(ctx, entryID, userID); err != nil {
		return nil, err
	}
	return s.repomanager.Social(s.db).ListComments(ctx, entryID)
}

// AddFriend records a confirmed, symmetric friendship.
func (s *EntryService) AddFriend(ctx context.Context, userID, friendID string) error {
	return s.repomanager.Friendships(s.db).Create(ctx, userID, friendID)
}

// ListFriends returns the user's confirmed friend ids.
func (s *EntryService) ListFriends(ctx context.Context, userID string) ([]string, error) {
	return s.repomanager.Friendships(s.db).ListFriendIDs(ctx, userID)
}
