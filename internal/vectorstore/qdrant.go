package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// payloadIDField stores the caller-supplied memory id, since Qdrant point
// ids must be UUIDs or unsigned integers.
const payloadIDField = "_memory_id"

type qdrantBackend struct {
	client *qdrant.Client
	metric string // cosine|l2|euclidean|ip|dot|manhattan
}

// NewQdrant builds a Store backed by Qdrant. dsn is a URL such as
// "http://localhost:6334" or "https://host:6334?api_key=...". The Go client
// speaks Qdrant's gRPC API, which defaults to port 6334.
func NewQdrant(dsn, metric string, embedder Embedder) (Store, error) {
	parsed, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse qdrant dsn: %w", err)
	}
	host := parsed.Hostname()
	if host == "" {
		host = "localhost"
	}
	portStr := parsed.Port()
	if portStr == "" {
		portStr = "6334"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port in qdrant dsn: %w", err)
	}
	cfg := &qdrant.Config{Host: host, Port: port}
	if parsed.Scheme == "https" {
		cfg.UseTLS = true
	}
	if key := parsed.Query().Get("api_key"); key != "" {
		cfg.APIKey = key
	}
	client, err := qdrant.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}
	b := &qdrantBackend{client: client, metric: strings.ToLower(strings.TrimSpace(metric))}
	return New(b, embedder), nil
}

func (q *qdrantBackend) ensureCollection(ctx context.Context, collection string, dim int) error {
	exists, err := q.client.CollectionExists(ctx, collection)
	if err != nil {
		return fmt.Errorf("check collection exists: %w", err)
	}
	if exists {
		return nil
	}
	if dim <= 0 {
		return fmt.Errorf("qdrant requires a positive embedding dimension")
	}
	var distance qdrant.Distance
	switch q.metric {
	case "l2", "euclidean":
		distance = qdrant.Distance_Euclid
	case "ip", "dot":
		distance = qdrant.Distance_Dot
	case "manhattan":
		distance = qdrant.Distance_Manhattan
	default:
		distance = qdrant.Distance_Cosine
	}
	return q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dim),
			Distance: distance,
		}),
	})
}

func (q *qdrantBackend) upsert(ctx context.Context, collection, id string, vector []float32, rec memoryPayload) error {
	pointUUID := id
	if _, err := uuid.Parse(id); err != nil {
		pointUUID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String()
	}
	fields := map[string]any{
		"summary":    rec.summary,
		"importance": int64(rec.importance),
		"created_at": rec.createdAt,
	}
	if pointUUID != id {
		fields[payloadIDField] = id
	}
	vec := make([]float32, len(vector))
	copy(vec, vector)
	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points: []*qdrant.PointStruct{{
			Id:      qdrant.NewIDUUID(pointUUID),
			Vectors: qdrant.NewVectorsDense(vec),
			Payload: qdrant.NewValueMap(fields),
		}},
	})
	return err
}

func (q *qdrantBackend) search(ctx context.Context, collection string, vector []float32, k int, importanceGTE *int) ([]backendHit, error) {
	if k <= 0 {
		k = 10
	}
	vec := make([]float32, len(vector))
	copy(vec, vector)
	var filter *qdrant.Filter
	if importanceGTE != nil {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewRange("importance", &qdrant.Range{Gte: floatPtr(float64(*importanceGTE))}),
			},
		}
	}
	limit := uint64(k)
	hits, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQueryDense(vec),
		Limit:          &limit,
		Filter:         filter,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}
	out := make([]backendHit, 0, len(hits))
	for _, hit := range hits {
		pointID := hit.Id.GetUuid()
		if pointID == "" {
			pointID = hit.Id.String()
		}
		var rec memoryPayload
		var memoryID string
		if hit.Payload != nil {
			if v, ok := hit.Payload[payloadIDField]; ok {
				memoryID = v.GetStringValue()
			}
			if v, ok := hit.Payload["summary"]; ok {
				rec.summary = v.GetStringValue()
			}
			if v, ok := hit.Payload["importance"]; ok {
				rec.importance = int(v.GetIntegerValue())
			}
			if v, ok := hit.Payload["created_at"]; ok {
				rec.createdAt = v.GetIntegerValue()
			}
		}
		id := memoryID
		if id == "" {
			id = pointID
		}
		out = append(out, backendHit{id: id, score: float64(hit.Score), payload: rec})
	}
	return out, nil
}

func (q *qdrantBackend) drop(ctx context.Context, collection string) (bool, error) {
	exists, err := q.client.CollectionExists(ctx, collection)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if err := q.client.DeleteCollection(ctx, collection); err != nil {
		return false, err
	}
	return true, nil
}

func (q *qdrantBackend) close() error { return q.client.Close() }

func floatPtr(v float64) *float64 { return &v }
