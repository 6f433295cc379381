package identify_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing/iotest"

	"github.com/rise-and-shine/mediasniff/filestore"
)

// fakeStore is an in-memory filestore.Store with programmable failures.
type fakeStore struct {
	mu          sync.Mutex
	objects     map[filestore.BlobRef][]byte
	contentType map[filestore.BlobRef]string
	getErrs     []error // returned by successive Get calls before normal behaviour
	readErr     error   // when set, content streams fail after their data
	block       bool    // when set, Get waits for ctx to end
	gets        int
	closes      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects:     map[filestore.BlobRef][]byte{},
		contentType: map[filestore.BlobRef]string{},
	}
}

func (s *fakeStore) Put(_ context.Context, ref filestore.BlobRef, r io.Reader) (*filestore.FileInfo, error) {
	data, contentType, err := filestore.ReadContent(r)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[ref] = data
	s.contentType[ref] = contentType
	return &filestore.FileInfo{Ref: ref, Size: int64(len(data)), ContentType: contentType}, nil
}

func (s *fakeStore) Get(ctx context.Context, ref filestore.BlobRef) (*filestore.File, error) {
	s.mu.Lock()
	s.gets++
	block := s.block
	var err error
	if len(s.getErrs) > 0 {
		err, s.getErrs = s.getErrs[0], s.getErrs[1:]
	}
	data, ok := s.objects[ref]
	contentType := s.contentType[ref]
	readErr := s.readErr
	s.mu.Unlock()

	if block {
		<-ctx.Done()
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, filestore.NewNotFoundError(ref)
	}

	var content io.Reader = bytes.NewReader(data)
	if readErr != nil {
		content = io.MultiReader(content, iotest.ErrReader(readErr))
	}
	return &filestore.File{
		Content: &countingCloser{Reader: content, store: s},
		Info:    filestore.FileInfo{Ref: ref, Size: int64(len(data)), ContentType: contentType},
	}, nil
}

func (s *fakeStore) Delete(_ context.Context, ref filestore.BlobRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, ref)
	return nil
}

func (s *fakeStore) Exists(_ context.Context, ref filestore.BlobRef) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[ref]
	return ok, nil
}

func (s *fakeStore) counts() (gets, closes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets, s.closes
}

type countingCloser struct {
	io.Reader
	store *fakeStore
}

func (c *countingCloser) Close() error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.closes++
	return nil
}

var errConnReset = errors.New("connection reset by peer")
