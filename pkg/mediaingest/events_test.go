package mediaingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePushEvent(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantAction EventAction
		wantPath   string
		wantID     string
		wantErr    bool
	}{
		{
			name:       "finalize",
			body:       `{"messageId":"msg-123","eventType":"OBJECT_FINALIZE","objectId":"uploads/u1/avatar.jpg"}`,
			wantAction: ActionFinalize,
			wantPath:   "uploads/u1/avatar.jpg",
			wantID:     "msg-123",
		},
		{
			name:       "delete",
			body:       `{"messageId":"msg-124","eventType":"OBJECT_DELETE","objectId":"uploads/u1/avatar.jpg"}`,
			wantAction: ActionDelete,
			wantPath:   "uploads/u1/avatar.jpg",
			wantID:     "msg-124",
		},
		{
			name:       "metadata update ignored",
			body:       `{"messageId":"msg-125","eventType":"OBJECT_METADATA_UPDATE","objectId":"uploads/u1/avatar.jpg"}`,
			wantAction: ActionIgnore,
			wantPath:   "uploads/u1/avatar.jpg",
			wantID:     "msg-125",
		},
		{
			name:    "missing message id",
			body:    `{"eventType":"OBJECT_FINALIZE","objectId":"uploads/u1/avatar.jpg"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			body:    `{"messageId":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := ParsePushEvent([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAction, event.Action)
			assert.Equal(t, tt.wantPath, event.StoragePath)
			assert.Equal(t, tt.wantID, event.RawEventID)
		})
	}
}

func TestParseS3Payload(t *testing.T) {
	t.Run("subscription confirmation", func(t *testing.T) {
		payload, err := ParseS3Payload([]byte(`{"Type":"SubscriptionConfirmation","SubscribeURL":"https://sns.example.com/confirm?token=abc"}`))
		require.NoError(t, err)
		assert.Equal(t, S3PayloadSubscriptionConfirmation, payload.Kind)
		assert.Equal(t, "https://sns.example.com/confirm?token=abc", payload.SubscribeURL)
	})

	t.Run("confirmation without url", func(t *testing.T) {
		_, err := ParseS3Payload([]byte(`{"Type":"SubscriptionConfirmation"}`))
		assert.Error(t, err)
	})

	t.Run("notification envelope", func(t *testing.T) {
		body := `{"Type":"Notification","Message":"{\"Records\":[{\"eventName\":\"ObjectCreated:Put\",\"s3\":{\"object\":{\"key\":\"uploads/u1/avatar.jpg\"}}}]}"}`
		payload, err := ParseS3Payload([]byte(body))
		require.NoError(t, err)
		assert.Equal(t, S3PayloadRecords, payload.Kind)
		require.Len(t, payload.Records, 1)
		assert.Equal(t, "ObjectCreated:Put", payload.Records[0].EventName)
	})

	t.Run("envelope with bad message", func(t *testing.T) {
		_, err := ParseS3Payload([]byte(`{"Type":"Notification","Message":"not json"}`))
		assert.Error(t, err)
	})

	t.Run("direct batch", func(t *testing.T) {
		body := `{"Records":[
			{"eventName":"ObjectCreated:Put","s3":{"object":{"key":"a.jpg"}}},
			{"eventName":"ObjectRemoved:Delete","s3":{"object":{"key":"b.jpg"}}}
		]}`
		payload, err := ParseS3Payload([]byte(body))
		require.NoError(t, err)
		assert.Equal(t, S3PayloadRecords, payload.Kind)
		assert.Len(t, payload.Records, 2)
	})

	t.Run("malformed body", func(t *testing.T) {
		_, err := ParseS3Payload([]byte(`{`))
		assert.Error(t, err)
	})
}

func TestS3EventRecordCanonical(t *testing.T) {
	tests := []struct {
		name       string
		eventName  string
		key        string
		wantAction EventAction
		wantPath   string
	}{
		{"created put", "ObjectCreated:Put", "uploads/u1/avatar.jpg", ActionFinalize, "uploads/u1/avatar.jpg"},
		{"created multipart", "ObjectCreated:CompleteMultipartUpload", "big.bin", ActionFinalize, "big.bin"},
		{"removed delete", "ObjectRemoved:Delete", "old/path.jpg", ActionDelete, "old/path.jpg"},
		{"removed marker", "ObjectRemoved:DeleteMarkerCreated", "old/path.jpg", ActionDelete, "old/path.jpg"},
		{"test event ignored", "s3:TestEvent", "whatever", ActionIgnore, "whatever"},
		{"url encoded key", "ObjectCreated:Put", "uploads/u1/my+photo%281%29.jpg", ActionFinalize, "uploads/u1/my photo(1).jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec S3EventRecord
			rec.EventName = tt.eventName
			rec.S3.Object.Key = tt.key

			event := rec.Canonical()
			assert.Equal(t, tt.wantAction, event.Action)
			assert.Equal(t, tt.wantPath, event.StoragePath)
			assert.Equal(t, tt.eventName+":"+tt.wantPath, event.RawEventID)
		})
	}
}
