package storage

import (
	"snapptale/internal/model"
)

// PreviewStore 保存预览句柄对应的图片
type PreviewStore interface {
	Put(ref string, photo *model.Photo) error
	Get(ref string) (*model.Photo, error)
	Delete(ref string) error
	Len() int
}
