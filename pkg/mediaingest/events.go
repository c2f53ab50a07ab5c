package mediaingest

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Provider A: push-style notifications. One JSON body per delivery with an
// explicit event type and object path; authentication happens at the adapter
// before the body is trusted.

// Push event types recognized for Provider A.
const (
	PushEventFinalize       = "OBJECT_FINALIZE"
	PushEventDelete         = "OBJECT_DELETE"
	PushEventMetadataUpdate = "OBJECT_METADATA_UPDATE"
)

// PushMessage is the wire shape of one push-style notification
type PushMessage struct {
	MessageID string `json:"messageId"`
	EventType string `json:"eventType"`
	ObjectID  string `json:"objectId"`
}

// ParsePushEvent decodes a push-style body into a canonical event. Event
// types outside the finalize/delete families map to ActionIgnore.
func ParsePushEvent(body []byte) (CanonicalEvent, error) {
	var msg PushMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return CanonicalEvent{}, fmt.Errorf("decode push event: %w", err)
	}
	if msg.MessageID == "" {
		return CanonicalEvent{}, fmt.Errorf("push event missing messageId")
	}

	action := ActionIgnore
	switch msg.EventType {
	case PushEventFinalize:
		action = ActionFinalize
	case PushEventDelete:
		action = ActionDelete
	}

	return CanonicalEvent{
		Action:      action,
		StoragePath: msg.ObjectID,
		RawEventID:  msg.MessageID,
	}, nil
}

// Provider B: pub/sub-style notifications. The body is one of a subscription
// handshake, a notification envelope wrapping a records document, or the
// records document itself. The closed set of shapes is expressed as a tagged
// S3Payload so downstream code never re-inspects raw JSON.

// S3PayloadKind tags the recognized payload shapes.
type S3PayloadKind string

const (
	S3PayloadSubscriptionConfirmation S3PayloadKind = "subscription_confirmation"
	S3PayloadRecords                  S3PayloadKind = "records"
)

// S3Payload is the classified form of one Provider B delivery
type S3Payload struct {
	Kind         S3PayloadKind
	SubscribeURL string
	Records      []S3EventRecord
}

// S3EventRecord is one entry of a records batch
type S3EventRecord struct {
	EventName string `json:"eventName"`
	S3        struct {
		Object struct {
			Key string `json:"key"`
		} `json:"object"`
	} `json:"s3"`
}

type snsEnvelope struct {
	Type         string `json:"Type"`
	SubscribeURL string `json:"SubscribeURL"`
	Message      string `json:"Message"`
}

type s3EventDocument struct {
	Records []S3EventRecord `json:"Records"`
}

// ParseS3Payload classifies a Provider B body. A Notification envelope is
// unwrapped transparently; its Message field must itself be a records
// document.
func ParseS3Payload(body []byte) (*S3Payload, error) {
	var env snsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}

	switch env.Type {
	case "SubscriptionConfirmation":
		if env.SubscribeURL == "" {
			return nil, fmt.Errorf("subscription confirmation missing SubscribeURL")
		}
		return &S3Payload{Kind: S3PayloadSubscriptionConfirmation, SubscribeURL: env.SubscribeURL}, nil
	case "Notification":
		var doc s3EventDocument
		if err := json.Unmarshal([]byte(env.Message), &doc); err != nil {
			return nil, fmt.Errorf("decode enveloped message: %w", err)
		}
		return &S3Payload{Kind: S3PayloadRecords, Records: doc.Records}, nil
	}

	// Direct batch without an envelope.
	var doc s3EventDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return &S3Payload{Kind: S3PayloadRecords, Records: doc.Records}, nil
}

// Canonical derives the canonical event for one batch record. Event-name
// families are prefix-matched; anything else maps to ActionIgnore. Object
// keys arrive url-encoded and are decoded here. Records carry no message id,
// so the event name plus the decoded key serves as the raw event id.
func (r S3EventRecord) Canonical() CanonicalEvent {
	key := r.S3.Object.Key
	if decoded, err := url.QueryUnescape(key); err == nil {
		key = decoded
	}

	action := ActionIgnore
	switch {
	case strings.HasPrefix(r.EventName, "ObjectCreated:"):
		action = ActionFinalize
	case strings.HasPrefix(r.EventName, "ObjectRemoved:"):
		action = ActionDelete
	}

	return CanonicalEvent{
		Action:      action,
		StoragePath: key,
		RawEventID:  r.EventName + ":" + key,
	}
}
