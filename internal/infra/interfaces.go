package infra

import (
	"context"

	"nexus-market/internal/domain"
)

type AssistantInterface interface {
	Advise(ctx context.Context, query string, products []domain.Product) (string, error)
}

var _ AssistantInterface = (*AssistantClient)(nil)
