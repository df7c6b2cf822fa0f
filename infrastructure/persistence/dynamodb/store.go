// Package dynamodb implements the GraphStore on two DynamoDB tables, one per
// node kind. Items are written with slug-based references first and rewritten
// in place once IDs are known.
package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"dhammakb/domain/graph"
	"dhammakb/pkg/apperrors"
)

const (
	// batchWriteMax is the DynamoDB BatchWriteItem request ceiling.
	batchWriteMax = 25
	// batchGetMax is the DynamoDB BatchGetItem request ceiling.
	batchGetMax = 100
)

// Store implements ports.GraphStore against DynamoDB.
type Store struct {
	client          *awsdynamodb.Client
	listsTable      string
	dhammasTable    string
	parentIndexName string
	logger          *zap.Logger
}

// NewStore creates a Store bound to the given tables.
func NewStore(client *awsdynamodb.Client, listsTable, dhammasTable, parentIndexName string, logger *zap.Logger) *Store {
	return &Store{
		client:          client,
		listsTable:      listsTable,
		dhammasTable:    dhammasTable,
		parentIndexName: parentIndexName,
		logger:          logger,
	}
}

// listItem is the DynamoDB item for a list. The *_slugs fields exist only
// between insertion and resolution; resolution replaces them with the
// ID-based fields.
type listItem struct {
	ID            string            `dynamodbav:"id"`
	Slug          string            `dynamodbav:"slug"`
	Name          string            `dynamodbav:"name"`
	PaliName      string            `dynamodbav:"pali_name"`
	Description   string            `dynamodbav:"description"`
	ItemCount     int               `dynamodbav:"item_count"`
	ChildSlugs    []string          `dynamodbav:"child_slugs,omitempty"`
	UpstreamSlugs []graph.SlugRef   `dynamodbav:"upstream_from_slugs,omitempty"`
	Children      []string          `dynamodbav:"children,omitempty"`
	UpstreamFrom  []graph.Reference `dynamodbav:"upstream_from,omitempty"`
}

// dhammaItem is the DynamoDB item for a dhamma.
type dhammaItem struct {
	ID              string            `dynamodbav:"id"`
	Slug            string            `dynamodbav:"slug"`
	Name            string            `dynamodbav:"name"`
	PaliName        string            `dynamodbav:"pali_name"`
	Notes           string            `dynamodbav:"notes"`
	Essay           string            `dynamodbav:"essay"`
	PositionInList  int               `dynamodbav:"position_in_list"`
	ParentListSlug  string            `dynamodbav:"parent_list_slug,omitempty"`
	DownstreamSlugs []graph.SlugRef   `dynamodbav:"downstream_slugs,omitempty"`
	UpstreamSlugs   []graph.SlugRef   `dynamodbav:"upstream_from_slugs,omitempty"`
	CrossRefSlugs   []graph.SlugRef   `dynamodbav:"cross_reference_slugs,omitempty"`
	ParentListID    string            `dynamodbav:"parent_list_id,omitempty"`
	Downstream      []graph.Reference `dynamodbav:"downstream,omitempty"`
	UpstreamFrom    []graph.Reference `dynamodbav:"upstream_from,omitempty"`
	CrossReferences []graph.Reference `dynamodbav:"cross_references,omitempty"`
}

func (it *listItem) toDomain() *graph.List {
	return &graph.List{
		ID:           it.ID,
		Slug:         it.Slug,
		Name:         it.Name,
		PaliName:     it.PaliName,
		Description:  it.Description,
		ItemCount:    it.ItemCount,
		Children:     it.Children,
		UpstreamFrom: it.UpstreamFrom,
	}
}

func (it *dhammaItem) toDomain() *graph.Dhamma {
	return &graph.Dhamma{
		ID:              it.ID,
		Slug:            it.Slug,
		Name:            it.Name,
		PaliName:        it.PaliName,
		Notes:           it.Notes,
		Essay:           it.Essay,
		PositionInList:  it.PositionInList,
		ParentListID:    it.ParentListID,
		Downstream:      it.Downstream,
		UpstreamFrom:    it.UpstreamFrom,
		CrossReferences: it.CrossReferences,
	}
}

// Reset deletes every item from both tables.
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{s.listsTable, s.dhammasTable} {
		if err := s.clearTable(ctx, table); err != nil {
			return fmt.Errorf("clear table %s: %w", table, err)
		}
	}
	return nil
}

func (s *Store) clearTable(ctx context.Context, table string) error {
	var keys []map[string]types.AttributeValue
	var lastKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &awsdynamodb.ScanInput{
			TableName:            aws.String(table),
			ProjectionExpression: aws.String("id"),
			ExclusiveStartKey:    lastKey,
		})
		if err != nil {
			return fmt.Errorf("scan keys: %w", err)
		}
		keys = append(keys, out.Items...)
		lastKey = out.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}

	for start := 0; start < len(keys); start += batchWriteMax {
		end := start + batchWriteMax
		if end > len(keys) {
			end = len(keys)
		}
		requests := make([]types.WriteRequest, 0, end-start)
		for _, key := range keys[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: key},
			})
		}
		if err := s.batchWrite(ctx, table, requests); err != nil {
			return err
		}
	}
	s.logger.Info("Cleared table", zap.String("table", table), zap.Int("deleted", len(keys)))
	return nil
}

// InsertLists writes drafts with fresh IDs, references still in slug form.
func (s *Store) InsertLists(ctx context.Context, drafts []*graph.DraftList) error {
	requests := make([]types.WriteRequest, 0, len(drafts))
	for _, d := range drafts {
		item := listItem{
			ID:            uuid.NewString(),
			Slug:          d.Slug,
			Name:          d.Name,
			PaliName:      d.PaliName,
			Description:   d.Description,
			ItemCount:     d.ItemCount,
			ChildSlugs:    d.Children,
			UpstreamSlugs: d.UpstreamFrom,
		}
		av, err := attributevalue.MarshalMap(item)
		if err != nil {
			return fmt.Errorf("marshal list %s: %w", d.Slug, err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: av},
		})
	}
	return s.batchWriteChunked(ctx, s.listsTable, requests)
}

// InsertDhammas writes drafts with fresh IDs, references still in slug form.
func (s *Store) InsertDhammas(ctx context.Context, drafts []*graph.DraftDhamma) error {
	requests := make([]types.WriteRequest, 0, len(drafts))
	for _, d := range drafts {
		item := dhammaItem{
			ID:              uuid.NewString(),
			Slug:            d.Slug,
			Name:            d.Name,
			PaliName:        d.PaliName,
			Notes:           d.Notes,
			Essay:           d.Essay,
			PositionInList:  d.PositionInList,
			ParentListSlug:  d.ParentListSlug,
			DownstreamSlugs: d.Downstream,
			UpstreamSlugs:   d.UpstreamFrom,
			CrossRefSlugs:   d.CrossReferences,
		}
		av, err := attributevalue.MarshalMap(item)
		if err != nil {
			return fmt.Errorf("marshal dhamma %s: %w", d.Slug, err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: av},
		})
	}
	return s.batchWriteChunked(ctx, s.dhammasTable, requests)
}

func (s *Store) batchWriteChunked(ctx context.Context, table string, requests []types.WriteRequest) error {
	for start := 0; start < len(requests); start += batchWriteMax {
		end := start + batchWriteMax
		if end > len(requests) {
			end = len(requests)
		}
		if err := s.batchWrite(ctx, table, requests[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) batchWrite(ctx context.Context, table string, requests []types.WriteRequest) error {
	pending := requests
	for len(pending) > 0 {
		out, err := s.client.BatchWriteItem(ctx, &awsdynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{table: pending},
		})
		if err != nil {
			return fmt.Errorf("batch write to %s: %w", table, err)
		}
		pending = out.UnprocessedItems[table]
	}
	return nil
}

// ListSlugIndex scans the lists table and maps slug to ID.
func (s *Store) ListSlugIndex(ctx context.Context) (map[string]string, error) {
	return s.slugIndex(ctx, s.listsTable)
}

// DhammaSlugIndex scans the dhammas table and maps slug to ID.
func (s *Store) DhammaSlugIndex(ctx context.Context) (map[string]string, error) {
	return s.slugIndex(ctx, s.dhammasTable)
}

func (s *Store) slugIndex(ctx context.Context, table string) (map[string]string, error) {
	index := make(map[string]string)
	var lastKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &awsdynamodb.ScanInput{
			TableName:            aws.String(table),
			ProjectionExpression: aws.String("id, slug"),
			ExclusiveStartKey:    lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s for slug index: %w", table, err)
		}
		for _, raw := range out.Items {
			var entry struct {
				ID   string `dynamodbav:"id"`
				Slug string `dynamodbav:"slug"`
			}
			if err := attributevalue.UnmarshalMap(raw, &entry); err != nil {
				return nil, fmt.Errorf("unmarshal slug entry: %w", err)
			}
			index[entry.Slug] = entry.ID
		}
		lastKey = out.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}
	return index, nil
}

// ResolveList replaces the slug-form references of a list with ID-form ones.
func (s *Store) ResolveList(ctx context.Context, id string, children []string, upstream []graph.Reference) error {
	childrenAV, err := attributevalue.Marshal(children)
	if err != nil {
		return fmt.Errorf("marshal children: %w", err)
	}
	upstreamAV, err := attributevalue.Marshal(upstream)
	if err != nil {
		return fmt.Errorf("marshal upstream: %w", err)
	}
	_, err = s.client.UpdateItem(ctx, &awsdynamodb.UpdateItemInput{
		TableName: aws.String(s.listsTable),
		Key:       idKey(id),
		UpdateExpression: aws.String(
			"SET children = :children, upstream_from = :upstream REMOVE child_slugs, upstream_from_slugs"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":children": childrenAV,
			":upstream": upstreamAV,
		},
	})
	if err != nil {
		return fmt.Errorf("resolve list %s: %w", id, err)
	}
	return nil
}

// ResolveDhamma replaces the slug-form references of a dhamma with ID-form
// ones.
func (s *Store) ResolveDhamma(ctx context.Context, id, parentListID string, downstream, upstream, crossRefs []graph.Reference) error {
	downstreamAV, err := attributevalue.Marshal(downstream)
	if err != nil {
		return fmt.Errorf("marshal downstream: %w", err)
	}
	upstreamAV, err := attributevalue.Marshal(upstream)
	if err != nil {
		return fmt.Errorf("marshal upstream: %w", err)
	}
	crossRefsAV, err := attributevalue.Marshal(crossRefs)
	if err != nil {
		return fmt.Errorf("marshal cross references: %w", err)
	}
	_, err = s.client.UpdateItem(ctx, &awsdynamodb.UpdateItemInput{
		TableName: aws.String(s.dhammasTable),
		Key:       idKey(id),
		UpdateExpression: aws.String(
			"SET parent_list_id = :parent, downstream = :downstream, upstream_from = :upstream, cross_references = :crossrefs " +
				"REMOVE parent_list_slug, downstream_slugs, upstream_from_slugs, cross_reference_slugs"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":parent":     &types.AttributeValueMemberS{Value: parentListID},
			":downstream": downstreamAV,
			":upstream":   upstreamAV,
			":crossrefs":  crossRefsAV,
		},
	})
	if err != nil {
		return fmt.Errorf("resolve dhamma %s: %w", id, err)
	}
	return nil
}

// GetList fetches one list by ID.
func (s *Store) GetList(ctx context.Context, id string) (*graph.List, error) {
	out, err := s.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(s.listsTable),
		Key:       idKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("get list %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, apperrors.ErrNodeNotFound
	}
	var item listItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal list %s: %w", id, err)
	}
	return item.toDomain(), nil
}

// GetDhamma fetches one dhamma by ID.
func (s *Store) GetDhamma(ctx context.Context, id string) (*graph.Dhamma, error) {
	out, err := s.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(s.dhammasTable),
		Key:       idKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("get dhamma %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, apperrors.ErrNodeNotFound
	}
	var item dhammaItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal dhamma %s: %w", id, err)
	}
	return item.toDomain(), nil
}

// AllLists scans the lists table, ordered by slug for stable output.
func (s *Store) AllLists(ctx context.Context) ([]*graph.List, error) {
	items, err := s.scanAll(ctx, s.listsTable)
	if err != nil {
		return nil, err
	}
	lists := make([]*graph.List, 0, len(items))
	for _, raw := range items {
		var item listItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshal list: %w", err)
		}
		lists = append(lists, item.toDomain())
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].Slug < lists[j].Slug })
	return lists, nil
}

// AllDhammas scans the dhammas table, ordered by slug for stable output.
func (s *Store) AllDhammas(ctx context.Context) ([]*graph.Dhamma, error) {
	items, err := s.scanAll(ctx, s.dhammasTable)
	if err != nil {
		return nil, err
	}
	dhammas := make([]*graph.Dhamma, 0, len(items))
	for _, raw := range items {
		var item dhammaItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshal dhamma: %w", err)
		}
		dhammas = append(dhammas, item.toDomain())
	}
	sort.Slice(dhammas, func(i, j int) bool { return dhammas[i].Slug < dhammas[j].Slug })
	return dhammas, nil
}

func (s *Store) scanAll(ctx context.Context, table string) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	var lastKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &awsdynamodb.ScanInput{
			TableName:         aws.String(table),
			ExclusiveStartKey: lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		items = append(items, out.Items...)
		lastKey = out.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}
	return items, nil
}

// ListNames resolves list IDs to names via BatchGetItem. Unknown IDs are
// omitted from the result.
func (s *Store) ListNames(ctx context.Context, ids []string) (map[string]string, error) {
	return s.batchNames(ctx, s.listsTable, ids)
}

// DhammaNames resolves dhamma IDs to names via BatchGetItem.
func (s *Store) DhammaNames(ctx context.Context, ids []string) (map[string]string, error) {
	return s.batchNames(ctx, s.dhammasTable, ids)
}

func (s *Store) batchNames(ctx context.Context, table string, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	unique := dedupe(ids)
	for start := 0; start < len(unique); start += batchGetMax {
		end := start + batchGetMax
		if end > len(unique) {
			end = len(unique)
		}
		keys := make([]map[string]types.AttributeValue, 0, end-start)
		for _, id := range unique[start:end] {
			keys = append(keys, idKey(id))
		}
		pending := keys
		for len(pending) > 0 {
			out, err := s.client.BatchGetItem(ctx, &awsdynamodb.BatchGetItemInput{
				RequestItems: map[string]types.KeysAndAttributes{
					table: {
						Keys:                 pending,
						ProjectionExpression: aws.String("id, #n"),
						ExpressionAttributeNames: map[string]string{
							"#n": "name",
						},
					},
				},
			})
			if err != nil {
				return nil, fmt.Errorf("batch get names from %s: %w", table, err)
			}
			for _, raw := range out.Responses[table] {
				var entry struct {
					ID   string `dynamodbav:"id"`
					Name string `dynamodbav:"name"`
				}
				if err := attributevalue.UnmarshalMap(raw, &entry); err != nil {
					return nil, fmt.Errorf("unmarshal name entry: %w", err)
				}
				names[entry.ID] = entry.Name
			}
			pending = out.UnprocessedKeys[table].Keys
		}
	}
	return names, nil
}

// SiblingRange queries the parent index for the dhammas of a list whose
// positions fall in [lo, hi], ordered by position.
func (s *Store) SiblingRange(ctx context.Context, parentListID string, lo, hi int) ([]*graph.Dhamma, error) {
	out, err := s.client.Query(ctx, &awsdynamodb.QueryInput{
		TableName:              aws.String(s.dhammasTable),
		IndexName:              aws.String(s.parentIndexName),
		KeyConditionExpression: aws.String("parent_list_id = :parent AND position_in_list BETWEEN :lo AND :hi"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":parent": &types.AttributeValueMemberS{Value: parentListID},
			":lo":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", lo)},
			":hi":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", hi)},
		},
		ScanIndexForward: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query siblings of %s: %w", parentListID, err)
	}
	siblings := make([]*graph.Dhamma, 0, len(out.Items))
	for _, raw := range out.Items {
		var item dhammaItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshal sibling: %w", err)
		}
		siblings = append(siblings, item.toDomain())
	}
	return siblings, nil
}

// Search scans both tables and matches q case-insensitively against name and
// Pali name. The dataset is small enough that a filtered scan is adequate.
func (s *Store) Search(ctx context.Context, q string) ([]graph.SearchResult, error) {
	needle := strings.ToLower(strings.TrimSpace(q))
	if needle == "" {
		return nil, nil
	}

	var results []graph.SearchResult
	lists, err := s.AllLists(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range lists {
		if matchesQuery(needle, l.Name, l.PaliName) {
			results = append(results, graph.SearchResult{ID: l.ID, Name: l.Name, PaliName: l.PaliName, Kind: graph.KindList})
		}
	}
	dhammas, err := s.AllDhammas(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range dhammas {
		if matchesQuery(needle, d.Name, d.PaliName) {
			results = append(results, graph.SearchResult{ID: d.ID, Name: d.Name, PaliName: d.PaliName, Kind: graph.KindDhamma})
		}
	}
	return results, nil
}

func matchesQuery(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
