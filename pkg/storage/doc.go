// Package storage provides S3-compatible object storage for archiving
// inbound message attachments.
//
// It offers a simple interface for uploading, retrieving, and managing files
// with automatic MIME detection and validation.
//
// # Basic Usage
//
// Create a storage client and upload files:
//
//	cfg := storage.Config{
//		Bucket:    "my-bucket",
//		Region:    "us-east-1",
//		AccessKey: os.Getenv("S3_ACCESS_KEY"),
//		SecretKey: os.Getenv("S3_SECRET_KEY"),
//	}
//
//	store, err := storage.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	info, err := store.Put(ctx, bytes.NewReader(att.Content), int64(len(att.Content)),
//		storage.WithPrefix("attachments"),
//	)
//
// # Validation
//
// Use WithValidation to reject oversized or unexpected attachment types
// before they hit the bucket:
//
//	info, err := store.Put(ctx, bytes.NewReader(att.Content), int64(len(att.Content)),
//		storage.WithValidation(
//			storage.MaxSize(25 << 20),  // 25MB
//			storage.AllowedTypes("application/pdf", "image/png"),
//		),
//		storage.WithPrefix("attachments"),
//	)
//	if err != nil {
//		var verr *storage.FileValidationError
//		if errors.As(err, &verr) {
//			// Handle validation error
//		}
//	}
//
// # URL Generation
//
// Generate URLs for archived attachments:
//
//	// Auto-detect based on ACL (public vs signed)
//	url, err := store.URL(ctx, info.Key)
//
//	// Force signed URL with custom expiry
//	url, err := store.URL(ctx, info.Key,
//		storage.WithSigned(time.Hour),
//	)
//
//	// Signed URL with download disposition
//	url, err := store.URL(ctx, info.Key,
//		storage.WithDownload("invoice.pdf"),
//	)
//
// # Configuration
//
// The Config struct supports environment variables:
//
//	type Config struct {
//		Bucket     string // S3_BUCKET
//		AccessKey  string // S3_ACCESS_KEY
//		SecretKey  string // S3_SECRET_KEY
//		Endpoint   string // S3_ENDPOINT (for MinIO/custom S3)
//		Region     string // S3_REGION (default: us-east-1)
//		PublicURL  string // S3_PUBLIC_URL (CDN URL)
//		DefaultACL ACL    // S3_DEFAULT_ACL (default: private)
//		PathStyle  bool   // S3_PATH_STYLE (for MinIO)
//	}
package storage
