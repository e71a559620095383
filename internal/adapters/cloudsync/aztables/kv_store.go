// Package aztables persists ledger documents in Azure Table Storage, the hosted
// backend used for cloud sync. Every user namespace maps to one partition.
package aztables

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"github.com/SscSPs/dailybalance/internal/core/ports/repositories"
)

const (
	valueProperty = "Value"
	chunkProperty = "Chunks"
	// String properties are limited to 64KiB of UTF-16. Byte-sized chunks stay under it.
	maxChunkBytes = 30000
)

// Store implements repositories.KeyValueStore on a single table.
type Store struct {
	client *aztables.Client
	logger *slog.Logger
}

var _ repositories.KeyValueStore = (*Store)(nil)

// NewStore connects to serviceURL and makes sure tableName exists.
// An http:// URL is treated as a local Azurite emulator and uses its shared key.
func NewStore(ctx context.Context, serviceURL, tableName string, logger *slog.Logger) (*Store, error) {
	if serviceURL == "" {
		return nil, fmt.Errorf("azure table service url is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	var service *aztables.ServiceClient
	if isLocal(serviceURL) {
		logger.Info("Using Azurite credentials for table storage")
		cred, err := aztables.NewSharedKeyCredential(azuriteAccountName, azuriteAccountKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		service, err = aztables.NewServiceClientWithSharedKey(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client with shared key: %w", err)
		}
	} else {
		cred, err := newDefaultAzureCredential(logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		service, err = aztables.NewServiceClient(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client: %w", err)
		}
	}

	if _, err := service.CreateTable(ctx, tableName, nil); err != nil {
		var azErr *azcore.ResponseError
		if !errors.As(err, &azErr) || azErr.ErrorCode != "TableAlreadyExists" {
			return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
		}
	}

	logger.Info("Table storage initialized", slog.String("table_url", serviceURL), slog.String("table", tableName))
	return &Store{client: service.NewClient(tableName), logger: logger}, nil
}

func isNotFound(err error) bool {
	var azErr *azcore.ResponseError
	return errors.As(err, &azErr) && (azErr.StatusCode == http.StatusNotFound || azErr.ErrorCode == "ResourceNotFound")
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	pk, rk := splitKey(key)
	resp, err := s.client.GetEntity(ctx, pk, rk, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get entity %s: %w", key, err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(resp.Value, &parsed); err != nil {
		return nil, false, fmt.Errorf("failed to decode entity %s: %w", key, err)
	}
	value, err := joinChunks(parsed)
	if err != nil {
		return nil, false, fmt.Errorf("entity %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	options := &aztables.ListEntitiesOptions{}
	selectFields := "PartitionKey,RowKey"
	options.Select = &selectFields
	if filter, ok := prefixFilter(prefix); ok {
		options.Filter = &filter
	}

	pager := s.client.NewListEntitiesPager(options)
	var keys []string
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list entities: %w", err)
		}
		for _, entity := range resp.Entities {
			var parsed aztables.Entity
			if err := json.Unmarshal(entity, &parsed); err != nil {
				s.logger.Warn("Skipping undecodable entity", slog.String("error", err.Error()))
				continue
			}
			key := joinKey(parsed.PartitionKey, parsed.RowKey)
			if strings.HasPrefix(key, prefix) {
				keys = append(keys, key)
			}
		}
	}
	return keys, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}
	pk, rk := splitKey(key)
	entity := splitChunks(value)
	entity["PartitionKey"] = pk
	entity["RowKey"] = rk
	body, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to encode entity %s: %w", key, err)
	}
	if _, err := s.client.UpsertEntity(ctx, body, &aztables.UpsertEntityOptions{UpdateMode: aztables.UpdateModeReplace}); err != nil {
		return fmt.Errorf("failed to upsert entity %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	pk, rk := splitKey(key)
	if _, err := s.client.DeleteEntity(ctx, pk, rk, nil); err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to delete entity %s: %w", key, err)
	}
	return nil
}

// splitChunks spreads value over Value0..ValueN properties, cutting only on rune boundaries.
func splitChunks(value []byte) map[string]any {
	props := map[string]any{}
	n := 0
	for len(value) > 0 {
		end := len(value)
		if end > maxChunkBytes {
			end = maxChunkBytes
			for end > 0 && !utf8.RuneStart(value[end]) {
				end--
			}
		}
		props[valueProperty+strconv.Itoa(n)] = string(value[:end])
		value = value[end:]
		n++
	}
	props[chunkProperty] = n
	return props
}

func joinChunks(props map[string]any) ([]byte, error) {
	count, ok := props[chunkProperty].(float64)
	if !ok || count < 0 {
		return nil, fmt.Errorf("missing %s property", chunkProperty)
	}
	var b strings.Builder
	for i := 0; i < int(count); i++ {
		part, ok := props[valueProperty+strconv.Itoa(i)].(string)
		if !ok {
			return nil, fmt.Errorf("missing %s%d property", valueProperty, i)
		}
		b.WriteString(part)
	}
	return []byte(b.String()), nil
}
