package embed

import "context"

// EmbedAll drives provider over texts in provider.BatchSize()-sized
// batches, reporting per-batch progress and concatenating partial results
// so the caller sees one BatchResult index-aligned against the full input
// list (global index, not per-batch), per spec §4.4 and §4.8.
func EmbedAll(ctx context.Context, provider Provider, texts []string, progress ProgressFunc) (BatchResult, error) {
	batchSize := provider.BatchSize()
	if batchSize <= 0 {
		batchSize = 32
	}

	var total BatchResult
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batchResult, err := provider.EmbedBatch(ctx, texts[start:end], func(cur, n int) {
			if progress != nil {
				progress(start+cur, len(texts))
			}
		})
		if err != nil && len(batchResult.SuccessIndices) == 0 {
			// Total batch failure with nothing recovered: surface it so
			// the pipeline can abort this file rather than silently
			// reporting zero chunks indexed.
			return total, err
		}

		for i, idx := range batchResult.SuccessIndices {
			total.Vectors = append(total.Vectors, batchResult.Vectors[i])
			total.SuccessIndices = append(total.SuccessIndices, start+idx)
		}
		total.FailedCount += batchResult.FailedCount
	}

	return total, nil
}
