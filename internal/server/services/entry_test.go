package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"keepsafe/internal/common"
	sc "keepsafe/internal/server/config"
	"keepsafe/internal/server/models"
	"keepsafe/internal/server/repositories/repomanager"
)

type noopRepoMgr struct{ repomanager.RepositoryManager }

func newEntrySvc(t *testing.T, rm repomanager.RepositoryManager) *EntryService {
	t.Helper()
	cfg := &sc.Config{
		S3Region:        "us-east-1",
		S3AccessKey:     "minioadmin",
		S3SecretKey:     "minioadmin",
		S3BaseEndpoint:  "http://127.0.0.1:9000",
		S3Bucket:        "keepsafe",
		S3PublicBaseURL: "http://127.0.0.1:9000/keepsafe",
		SecretKey:       "k",
	}
	return NewEntryService(newSQLMockDB(t), rm, cfg)
}

func stubPresignStack(t *testing.T) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
	})
}

func Test_getPresignClient_SuccessAndError(t *testing.T) {
	svc := newEntrySvc(t, &noopRepoMgr{})
	stubPresignStack(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		if len(optFns) == 0 {
			t.Fatalf("expected config options")
		}
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}

	var capturedBaseEndpoint string
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint == nil {
			t.Fatalf("BaseEndpoint not set")
		}
		capturedBaseEndpoint = *opts.BaseEndpoint
		return &s3.Client{}
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		if c == nil {
			t.Fatalf("nil client passed to presign")
		}
		return &s3.PresignClient{}
	}

	pc, err := svc.getPresignClient()
	if err != nil {
		t.Fatalf("getPresignClient err: %v", err)
	}
	if pc == nil {
		t.Fatalf("nil presign client")
	}
	if capturedBaseEndpoint != "http://127.0.0.1:9000" {
		t.Fatalf("BaseEndpoint mismatch: %q", capturedBaseEndpoint)
	}

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	pc, err = svc.getPresignClient()
	if err == nil || err.Error() != "load-fail" {
		t.Fatalf("expected load-fail, got %v (pc=%v)", err, pc)
	}
}

func TestGetPresignedPutURL_Success(t *testing.T) {
	svc := newEntrySvc(t, &noopRepoMgr{})
	stubPresignStack(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client { return &s3.Client{} }
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }

	var gotBucket, gotKey, gotContentType string
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotBucket = aws.ToString(in.Bucket)
		gotKey = aws.ToString(in.Key)
		gotContentType = aws.ToString(in.ContentType)
		return &v4.PresignedHTTPRequest{URL: "http://signed.example/put"}, nil
	}

	uploadURL, publicURL, err := svc.GetPresignedPutURL(context.Background(), "u1/photo.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("GetPresignedPutURL err: %v", err)
	}
	if uploadURL != "http://signed.example/put" {
		t.Fatalf("upload url mismatch: %q", uploadURL)
	}
	if publicURL != "http://127.0.0.1:9000/keepsafe/u1/photo.jpg" {
		t.Fatalf("public url mismatch: %q", publicURL)
	}
	if gotBucket != "keepsafe" || gotKey != "u1/photo.jpg" || gotContentType != "image/jpeg" {
		t.Fatalf("presign input mismatch: bucket=%q key=%q ct=%q", gotBucket, gotKey, gotContentType)
	}
}

func TestGetPresignedPutURL_ErrorFromPresign(t *testing.T) {
	svc := newEntrySvc(t, &noopRepoMgr{})
	stubPresignStack(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client { return &s3.Client{} }
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-put-fail")
	}

	_, _, err := svc.GetPresignedPutURL(context.Background(), "k", "image/jpeg")
	if err == nil || err.Error() != "presign-put-fail" {
		t.Fatalf("want presign-put-fail, got %v", err)
	}
}

func TestCreateEntry_OwnerLeadsSharedSet(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	svc := newEntrySvc(t, rm)

	created, err := svc.CreateEntry(context.Background(), &models.Entry{
		UserID:     "owner",
		Type:       "photo",
		SharedWith: []string{"friend-1", "friend-2"},
	})
	if err != nil {
		t.Fatalf("CreateEntry err: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned id")
	}
	want := []string{"owner", "friend-1", "friend-2"}
	if len(created.SharedWith) != len(want) {
		t.Fatalf("shared set size mismatch: %v", created.SharedWith)
	}
	for i, id := range want {
		if created.SharedWith[i] != id {
			t.Fatalf("shared set mismatch at %d: %v", i, created.SharedWith)
		}
	}
}

func TestListEntries_OrdersNewestFirst(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	svc := newEntrySvc(t, rm)

	old := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	for _, e := range []*models.Entry{
		{UserID: "owner", Type: "text", TextContent: "older", CreatedAt: old},
		{UserID: "owner", Type: "text", TextContent: "newer", CreatedAt: recent},
	} {
		if _, err := svc.CreateEntry(context.Background(), e); err != nil {
			t.Fatalf("CreateEntry err: %v", err)
		}
	}

	got, err := svc.ListEntries(context.Background(), "owner", 10)
	if err != nil {
		t.Fatalf("ListEntries err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].TextContent != "newer" || got[1].TextContent != "older" {
		t.Fatalf("order mismatch: %q then %q", got[0].TextContent, got[1].TextContent)
	}
}

func TestReact_PrivateEntryHiddenFromOthers(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	svc := newEntrySvc(t, rm)

	created, err := svc.CreateEntry(context.Background(), &models.Entry{
		UserID:    "owner",
		Type:      "photo",
		IsPrivate: true,
	})
	if err != nil {
		t.Fatalf("CreateEntry err: %v", err)
	}

	if _, err := svc.React(context.Background(), created.ID, "stranger", "❤️"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for stranger, got %v", err)
	}

	reaction, err := svc.React(context.Background(), created.ID, "owner", "❤️")
	if err != nil {
		t.Fatalf("React err for owner: %v", err)
	}
	if reaction.Type != "❤️" {
		t.Fatalf("reaction type mismatch: %q", reaction.Type)
	}
}

func TestComment_SharedWithEveryoneRequiresFriendship(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	svc := newEntrySvc(t, rm)

	created, err := svc.CreateEntry(context.Background(), &models.Entry{
		UserID:             "owner",
		Type:               "music",
		MusicTag:           "song-1",
		SharedWithEveryone: true,
	})
	if err != nil {
		t.Fatalf("CreateEntry err: %v", err)
	}

	if _, err := svc.Comment(context.Background(), created.ID, "stranger", "nice"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before friendship, got %v", err)
	}

	if err := svc.AddFriend(context.Background(), "owner", "stranger"); err != nil {
		t.Fatalf("AddFriend err: %v", err)
	}

	comment, err := svc.Comment(context.Background(), created.ID, "stranger", "nice")
	if err != nil {
		t.Fatalf("Comment err after friendship: %v", err)
	}

	comments, err := svc.ListComments(context.Background(), created.ID, "owner")
	if err != nil {
		t.Fatalf("ListComments err: %v", err)
	}
	if len(comments) != 1 || comments[0].ID != comment.ID {
		t.Fatalf("unexpected comments: %v", comments)
	}
}

func TestListReactions_UpsertKeepsOnePerUser(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	svc := newEntrySvc(t, rm)

	created, err := svc.CreateEntry(context.Background(), &models.Entry{UserID: "owner", Type: "text"})
	if err != nil {
		t.Fatalf("CreateEntry err: %v", err)
	}

	if _, err := svc.React(context.Background(), created.ID, "owner", "👍"); err != nil {
		t.Fatalf("React err: %v", err)
	}
	if _, err := svc.React(context.Background(), created.ID, "owner", "❤️"); err != nil {
		t.Fatalf("React err: %v", err)
	}

	reactions, err := svc.ListReactions(context.Background(), created.ID, "owner")
	if err != nil {
		t.Fatalf("ListReactions err: %v", err)
	}
	if len(reactions) != 1 {
		t.Fatalf("expected one reaction after upsert, got %d", len(reactions))
	}
	if reactions[0].Type != "❤️" {
		t.Fatalf("expected latest reaction type, got %q", reactions[0].Type)
	}
}
