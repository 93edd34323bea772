package handler

import (
	"github.com/frankli0324/go-fixhttp/internal/model"
)

// NoOp discards every response event, for callers that only care about the send.
type NoOp struct{}

func (NoOp) OnStatus(model.Response) {}
func (NoOp) OnBody(model.Chunk) {}
