package s3

import (
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"resume-builder/internal/shared/storage/object"
)

func TestObjectKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "owner/x_cv.pdf", want: "owner/x_cv.pdf"},
		{name: "prefix", prefix: "exports", key: "owner/x_cv.pdf", want: "exports/owner/x_cv.pdf"},
		{name: "leading slash key", prefix: "exports", key: "/owner/x_cv.pdf", want: "exports/owner/x_cv.pdf"},
		{name: "nested prefix", prefix: "prod/exports", key: "owner/x_cv.pdf", want: "prod/exports/owner/x_cv.pdf"},
		{name: "empty key", prefix: "exports", key: "", want: "exports"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := &Store{prefix: tt.prefix}
			if got := s.objectKey(tt.key); got != tt.want {
				t.Fatalf("objectKey(%q) with prefix %q = %q, want %q", tt.key, tt.prefix, got, tt.want)
			}
		})
	}
}

func TestPutInputCarriesDownloadName(t *testing.T) {
	t.Parallel()

	in := putInput("bucket", "exports/owner/x_jordan-lee-classic.pdf", object.Object{
		Name:        "jordan-lee-classic.pdf",
		ContentType: "application/pdf",
		Body:        []byte("%PDF-1.7 fake"),
	})
	if aws.ToString(in.ContentDisposition) != "attachment; filename=jordan-lee-classic.pdf" {
		t.Fatalf("unexpected disposition %q", aws.ToString(in.ContentDisposition))
	}
	if aws.ToInt64(in.ContentLength) != 13 || aws.ToString(in.ContentType) != "application/pdf" {
		t.Fatalf("unexpected length/type %d %s", aws.ToInt64(in.ContentLength), aws.ToString(in.ContentType))
	}
	body, _ := io.ReadAll(in.Body)
	if string(body) != "%PDF-1.7 fake" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestEncryptChoosesKMSWhenKeySet(t *testing.T) {
	t.Parallel()

	in := &s3.PutObjectInput{}
	(&Store{kmsKeyID: "key-1"}).encrypt(in)
	if in.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || aws.ToString(in.SSEKMSKeyId) != "key-1" {
		t.Fatalf("expected kms encryption, got %+v", in)
	}

	in = &s3.PutObjectInput{}
	(&Store{}).encrypt(in)
	if in.ServerSideEncryption != s3types.ServerSideEncryptionAes256 || in.SSEKMSKeyId != nil {
		t.Fatalf("expected AES256, got %+v", in)
	}
}
