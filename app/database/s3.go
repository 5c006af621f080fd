package database

import (
	"os"

	"github.com/gofiber/storage/s3/v2"
)

// ObjectBackend keeps the collections as whole objects in an S3 bucket, for
// deployments without a persistent local disk.
type ObjectBackend struct {
	storage *s3.Storage
}

func NewObjectBackend(storage *s3.Storage) *ObjectBackend {
	return &ObjectBackend{storage: storage}
}

func (b *ObjectBackend) Read(name string) ([]byte, error) {
	data, err := b.storage.Get(name + ".json")
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (b *ObjectBackend) Write(name string, data []byte) error {
	return b.storage.Set(name+".json", data, 0)
}
