package export

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyStory       = errors.New("story has no chapters")
	ErrExportInProgress = errors.New("an export is already in progress")
)

// ExportError 记录导出在哪一章失败，之后的章节不再处理
type ExportError struct {
	Chapter int
	Err     error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export chapter %d: %v", e.Chapter, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
