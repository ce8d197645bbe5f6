package suirpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/galerie-com/move/internal/domain"
)

// Client is a JSON-RPC 2.0 client for a Sui full node. It implements
// domain.ObjectReader, domain.EventReader, domain.TransactionReader and
// domain.CoinReader.
type Client struct {
	endpoint string
	http     *http.Client
	nextID   atomic.Int64
}

// New creates a client against the given full-node endpoint.
func New(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("calling %s: unexpected status %d", method, resp.StatusCode)
	}

	var envelope rpcResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decoding %s response: %w", method, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("calling %s: %w", method, envelope.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("decoding %s result: %w", method, err)
	}
	return nil
}

// objectData mirrors the full node's object payload.
type objectData struct {
	ObjectID            string          `json:"objectId"`
	Type                string          `json:"type"`
	Owner               json.RawMessage `json:"owner"`
	PreviousTransaction string          `json:"previousTransaction"`
	Content             *objectContent  `json:"content"`
}

type objectContent struct {
	DataType string         `json:"dataType"`
	Type     string         `json:"type"`
	Fields   map[string]any `json:"fields"`
}

type objectResponse struct {
	Data  *objectData      `json:"data"`
	Error *objectReadError `json:"error"`
}

type objectReadError struct {
	Code string `json:"code"`
}

var showObjectOptions = map[string]bool{
	"showType":                true,
	"showOwner":               true,
	"showContent":             true,
	"showPreviousTransaction": true,
}

func (o *objectResponse) toRecord() (*domain.Record, error) {
	if o.Error != nil {
		switch o.Error.Code {
		case "notExists", "deleted":
			return nil, domain.ErrNotFound
		default:
			return nil, fmt.Errorf("object read failed with code %q", o.Error.Code)
		}
	}
	if o.Data == nil {
		return nil, domain.ErrNotFound
	}
	rec := &domain.Record{
		ID:                  domain.ObjectID(o.Data.ObjectID),
		Type:                o.Data.Type,
		Owner:               parseOwner(o.Data.Owner),
		PreviousTransaction: domain.Digest(o.Data.PreviousTransaction),
	}
	if o.Data.Content != nil {
		if rec.Type == "" {
			rec.Type = o.Data.Content.Type
		}
		rec.Fields = o.Data.Content.Fields
	}
	return rec, nil
}

// parseOwner extracts the address of an address-owned object. Shared and
// immutable objects have no owning address.
func parseOwner(raw json.RawMessage) domain.Address {
	if len(raw) == 0 {
		return ""
	}
	var owned struct {
		AddressOwner string `json:"AddressOwner"`
	}
	if err := json.Unmarshal(raw, &owned); err != nil {
		return ""
	}
	return domain.Address(owned.AddressOwner)
}

// GetObject implements domain.ObjectReader.
func (c *Client) GetObject(ctx context.Context, id domain.ObjectID) (*domain.Record, error) {
	var resp objectResponse
	if err := c.call(ctx, "sui_getObject", []any{string(id), showObjectOptions}, &resp); err != nil {
		return nil, err
	}
	return resp.toRecord()
}

// MultiGetObjects implements domain.ObjectReader. Absent objects come
// back as nil entries, preserving order.
func (c *Client) MultiGetObjects(ctx context.Context, ids []domain.ObjectID) ([]*domain.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rawIDs := make([]string, len(ids))
	for i, id := range ids {
		rawIDs[i] = string(id)
	}
	var resp []objectResponse
	if err := c.call(ctx, "sui_multiGetObjects", []any{rawIDs, showObjectOptions}, &resp); err != nil {
		return nil, err
	}
	records := make([]*domain.Record, len(resp))
	for i := range resp {
		rec, err := resp[i].toRecord()
		if err != nil {
			continue
		}
		records[i] = rec
	}
	return records, nil
}

type ownedObjectsPage struct {
	Data        []objectResponse `json:"data"`
	NextCursor  *string          `json:"nextCursor"`
	HasNextPage bool             `json:"hasNextPage"`
}

// GetOwnedObjects implements domain.ObjectReader, following pagination
// cursors until the enumeration is complete.
func (c *Client) GetOwnedObjects(ctx context.Context, owner domain.Address, structType string) ([]*domain.Record, error) {
	query := map[string]any{
		"options": showObjectOptions,
	}
	if structType != "" {
		query["filter"] = map[string]any{"StructType": structType}
	}

	var records []*domain.Record
	var cursor *string
	for {
		params := []any{string(owner), query}
		if cursor != nil {
			params = append(params, *cursor)
		}
		var page ownedObjectsPage
		if err := c.call(ctx, "suix_getOwnedObjects", params, &page); err != nil {
			return nil, err
		}
		for i := range page.Data {
			rec, err := page.Data[i].toRecord()
			if err != nil {
				continue
			}
			records = append(records, rec)
		}
		if !page.HasNextPage || page.NextCursor == nil {
			break
		}
		cursor = page.NextCursor
	}
	return records, nil
}

type eventEnvelope struct {
	Type string `json:"type"`
	ID   struct {
		TxDigest string `json:"txDigest"`
	} `json:"id"`
	ParsedJSON map[string]any `json:"parsedJson"`
}

type eventsPage struct {
	Data []eventEnvelope `json:"data"`
}

// QueryEvents implements domain.EventReader, most recent first.
func (c *Client) QueryEvents(ctx context.Context, eventType string, limit int) ([]domain.Event, error) {
	filter := map[string]any{"MoveEventType": eventType}
	var page eventsPage
	if err := c.call(ctx, "suix_queryEvents", []any{filter, nil, limit, true}, &page); err != nil {
		return nil, err
	}
	events := make([]domain.Event, 0, len(page.Data))
	for _, ev := range page.Data {
		events = append(events, domain.Event{
			Type:       ev.Type,
			TxDigest:   domain.Digest(ev.ID.TxDigest),
			ParsedJSON: ev.ParsedJSON,
		})
	}
	return events, nil
}

type objectChangeEnvelope struct {
	Type     string `json:"type"`
	ObjectID string `json:"objectId"`
	// ObjectType is the Move type of the changed object.
	ObjectType string `json:"objectType"`
}

type transactionBlock struct {
	Digest        string                 `json:"digest"`
	ObjectChanges []objectChangeEnvelope `json:"objectChanges"`
}

func (t *transactionBlock) toEffects() domain.TransactionEffects {
	fx := domain.TransactionEffects{Digest: domain.Digest(t.Digest)}
	for _, ch := range t.ObjectChanges {
		change := domain.ObjectChange{ID: domain.ObjectID(ch.ObjectID), Type: ch.ObjectType}
		switch ch.Type {
		case "created":
			fx.Created = append(fx.Created, change)
		case "mutated":
			fx.Mutated = append(fx.Mutated, change)
		}
	}
	return fx
}

var showTxOptions = map[string]bool{"showObjectChanges": true}

// GetTransaction implements domain.TransactionReader.
func (c *Client) GetTransaction(ctx context.Context, digest domain.Digest) (*domain.TransactionEffects, error) {
	var block transactionBlock
	err := c.call(ctx, "sui_getTransactionBlock", []any{string(digest), showTxOptions}, &block)
	if err != nil {
		if isNotFoundRPC(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	fx := block.toEffects()
	return &fx, nil
}

type transactionsPage struct {
	Data []transactionBlock `json:"data"`
}

// QueryTransactionsByObject implements domain.TransactionReader.
func (c *Client) QueryTransactionsByObject(ctx context.Context, id domain.ObjectID, limit int) ([]domain.TransactionEffects, error) {
	filter := map[string]any{"ChangedObject": string(id)}
	return c.queryTransactions(ctx, filter, limit)
}

// QueryTransactionsByEntryPoint implements domain.TransactionReader.
func (c *Client) QueryTransactionsByEntryPoint(ctx context.Context, pkg, module, function string, limit int) ([]domain.TransactionEffects, error) {
	filter := map[string]any{
		"MoveFunction": map[string]any{
			"package":  pkg,
			"module":   module,
			"function": function,
		},
	}
	return c.queryTransactions(ctx, filter, limit)
}

func (c *Client) queryTransactions(ctx context.Context, filter map[string]any, limit int) ([]domain.TransactionEffects, error) {
	query := map[string]any{
		"filter":  filter,
		"options": showTxOptions,
	}
	var page transactionsPage
	if err := c.call(ctx, "suix_queryTransactionBlocks", []any{query, nil, limit, true}, &page); err != nil {
		return nil, err
	}
	effects := make([]domain.TransactionEffects, 0, len(page.Data))
	for i := range page.Data {
		effects = append(effects, page.Data[i].toEffects())
	}
	return effects, nil
}

type totalSupplyResult struct {
	Value string `json:"value"`
}

// TotalIssued implements domain.CoinReader.
func (c *Client) TotalIssued(ctx context.Context, coinType string) (uint64, error) {
	var result totalSupplyResult
	if err := c.call(ctx, "suix_getTotalSupply", []any{coinType}, &result); err != nil {
		if isNotFoundRPC(err) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	value, err := strconv.ParseUint(result.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing total supply %q: %w", result.Value, err)
	}
	return value, nil
}

type coinMetadataResult struct {
	Decimals    uint8  `json:"decimals"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	IconURL     string `json:"iconUrl"`
}

// CoinMetadata implements domain.CoinReader. An unregistered coin type
// yields a null result from the node.
func (c *Client) CoinMetadata(ctx context.Context, coinType string) (*domain.CoinMetadata, error) {
	var result *coinMetadataResult
	if err := c.call(ctx, "suix_getCoinMetadata", []any{coinType}, &result); err != nil {
		if isNotFoundRPC(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if result == nil {
		return nil, domain.ErrNotFound
	}
	return &domain.CoinMetadata{
		Decimals:    result.Decimals,
		Name:        result.Name,
		Symbol:      result.Symbol,
		Description: result.Description,
		IconURL:     result.IconURL,
	}, nil
}

// isNotFoundRPC matches the node's error text for unknown digests and
// unregistered coin types; the node reports these as plain RPC errors
// rather than typed codes.
func isNotFoundRPC(err error) bool {
	var rpcErr *rpcError
	if !errors.As(err, &rpcErr) {
		return false
	}
	msg := strings.ToLower(rpcErr.Message)
	return strings.Contains(msg, "not found") || strings.Contains(msg, "could not find")
}
