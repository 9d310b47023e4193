//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

package parser

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/smartdoc-parser/smartdoc-go/document"
)

// defaultConcurrency bounds parallel document downloads and OCR calls
// during batch parsing.
const defaultConcurrency = 4

// Request is one document to parse in a batch.
type Request struct {
	FileValue any
	Prompt    string
}

// BatchItem is the outcome for one batch request, in request order.
type BatchItem struct {
	Index  int              `json:"index"`
	Result *document.Result `json:"result,omitempty"`
	Err    *document.Error  `json:"error,omitempty"`
}

// ParseBatch parses multiple documents concurrently on a worker pool.
// Failures are recorded per item; one bad document never aborts the
// batch.
func (p *Parser) ParseBatch(ctx context.Context, requests []Request) []BatchItem {
	items := make([]BatchItem, len(requests))
	if len(requests) == 0 {
		return items
	}

	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(p.concurrency, func(v any) {
		defer wg.Done()
		idx := v.(int)
		items[idx] = p.parseItem(ctx, idx, requests[idx])
	})
	if err != nil {
		// Pool creation only fails on bad sizes; degrade to serial.
		for i, req := range requests {
			items[i] = p.parseItem(ctx, i, req)
		}
		return items
	}
	defer pool.Release()

	for i := range requests {
		wg.Add(1)
		if err := pool.Invoke(i); err != nil {
			wg.Done()
			items[i] = BatchItem{
				Index: i,
				Err:   document.NewError(document.CodeProcessingFailed, err.Error()),
			}
		}
	}
	wg.Wait()
	return items
}

func (p *Parser) parseItem(ctx context.Context, idx int, req Request) BatchItem {
	result, err := p.Parse(ctx, req.FileValue, req.Prompt)
	item := BatchItem{Index: idx, Result: result}
	if err != nil {
		item.Result = nil
		item.Err = document.AsError(err, document.CodeProcessingFailed)
	}
	return item
}
