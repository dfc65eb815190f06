// Package engine runs the extract, parse, edit, patch and log pipeline over
// the text of one script file.
package engine

import (
	"go.uber.org/zap"

	"github.com/victor-takai/ff12-augment-tool/internal/catalog"
	"github.com/victor-takai/ff12-augment-tool/internal/changelog"
	"github.com/victor-takai/ff12-augment-tool/internal/editor"
	"github.com/victor-takai/ff12-augment-tool/internal/extractor"
	"github.com/victor-takai/ff12-augment-tool/internal/parser"
	"github.com/victor-takai/ff12-augment-tool/internal/patcher"
	"github.com/victor-takai/ff12-augment-tool/model"
)

// Engine holds the per-run settings shared by every file.
type Engine struct {
	Catalogs     *catalog.Set
	Instructions editor.Instructions
	SignPolicy   parser.SignPolicy
	Canonicalize bool
	Logger       *zap.Logger
}

// Process patches text and records every unit entry under path in log. A
// record is created for path even when no entry qualifies.
func (e *Engine) Process(path, text string, log *changelog.Log) (string, model.FileResult) {
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("path", path))

	res := model.FileResult{Path: path}
	log.Touch(path)
	buf := patcher.NewBuffer(text)

	for block := range extractor.Scan(text) {
		if !block.Qualified {
			res.Unrecognized++
			logger.Warn("unrecognized entry", zap.Int("entry", block.Index))
			continue
		}
		calls, err := parser.ParseBlock(block, e.SignPolicy)
		if err != nil {
			res.Malformed++
			logger.Warn("skipping malformed entry", zap.Error(err))
			continue
		}
		res.Blocks++
		log.AddBlock(path)

		for _, call := range calls {
			res.Units++
			e.apply(buf, call, path, log, &res, logger)
		}
	}

	return buf.String(), res
}

func (e *Engine) apply(buf *patcher.Buffer, call parser.Call, path string, log *changelog.Log, res *model.FileResult, logger *zap.Logger) {
	result := e.Instructions.Edit(call)
	outcome := patcher.Apply(buf, result, e.Canonicalize)
	before := changelog.NewSnapshot(e.Catalogs, call.Expr, call.First, call.Second)

	switch outcome {
	case patcher.Edited:
		expr := patcher.Expression(patcher.Render(result.First), patcher.Render(result.Second))
		after := changelog.NewSnapshot(e.Catalogs, expr, result.First, result.Second)
		log.AddEdited(path, call.Unit, before, after)
		res.Edited++
		logger.Debug("edited", zap.Int("unit", call.Unit), zap.String("from", call.Expr), zap.String("to", expr))
	case patcher.Skipped:
		res.Skipped++
		logger.Warn("call site changed before patching, skipped", zap.Int("unit", call.Unit), zap.String("call", call.Expr))
	default:
		if outcome == patcher.Canonicalized {
			res.Canonicalized++
		}
		log.AddUnchanged(path, call.Unit, before)
		res.Unchanged++
		logger.Debug("nothing to change", zap.Int("unit", call.Unit), zap.String("call", call.Expr))
	}
}
