package enum

import (
	"context"

	"github.com/samuelgr/pathwinder/internal/fsops"
	"github.com/samuelgr/pathwinder/internal/layout"
	"github.com/samuelgr/pathwinder/internal/pwpath"
	"github.com/samuelgr/pathwinder/internal/rulestore"
)

// OriginProducer is Producer A (spec §4.3): a straight enumeration of the
// real origin directory, with a name excluded only when its matching rule
// is in Simple mode (Simple hides the origin side; Overlay unions the
// target on top of it, so the origin entry must still appear).
type OriginProducer struct {
	reader *realDirReader
}

// NewOriginProducer builds Producer A for directory p, whose covering rules
// (if any) are given by container.
func NewOriginProducer(facade fsops.FilesystemOperations, p pwpath.Path, class layout.InfoClass, pattern string, container rulestore.RelatedFilesystemRuleContainer) *OriginProducer {
	include := func(name string) bool {
		rule, matched := container.FirstMatch(name)
		if !matched {
			return true
		}
		return rule.RedirectMode() != rulestore.Simple
	}
	return &OriginProducer{reader: newRealDirReader(facade, p, class, pattern, include)}
}

func (op *OriginProducer) Status(ctx context.Context) Status { return op.reader.status(ctx) }

func (op *OriginProducer) FrontName() string { return op.reader.front().Name }

func (op *OriginProducer) FrontSize(class layout.InfoClass) int {
	return op.reader.front().size(class)
}

func (op *OriginProducer) CopyFront(dest []byte, cap int, class layout.InfoClass) int {
	return op.reader.front().render(dest, cap, class)
}

func (op *OriginProducer) Pop(ctx context.Context) { op.reader.pop(ctx) }

func (op *OriginProducer) Restart(ctx context.Context, pattern *string) { op.reader.restart(ctx, pattern) }
