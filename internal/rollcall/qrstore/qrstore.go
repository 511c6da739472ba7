// Package qrstore manages provisioning QR images on disk. An image is
// written at registration so the user can scan the otpauth:// URI, and
// removed once it has served its purpose.
package qrstore

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	imageSize = 256
	ext       = ".png"
)

// ErrUnsafeName rejects usernames that cannot safely become file names.
var ErrUnsafeName = errors.New("qrstore: unsafe name")

// safeName mirrors the username validation at the HTTP boundary; anything
// else must not reach the filesystem.
var safeName = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

type Store struct {
	Dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("qrstore: failed to create directory: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// Write renders uri as a QR PNG for username and returns the file name to
// serve it under.
func (s *Store) Write(username, uri string) (string, error) {
	if !safeName.MatchString(username) {
		return "", ErrUnsafeName
	}

	name := username + ext
	if err := qrcode.WriteFile(uri, qrcode.Medium, imageSize, filepath.Join(s.Dir, name)); err != nil {
		return "", fmt.Errorf("qrstore: failed to write QR image: %w", err)
	}
	return name, nil
}

// Remove deletes the image for username if it exists.
func (s *Store) Remove(username string) error {
	if !safeName.MatchString(username) {
		return ErrUnsafeName
	}

	err := os.Remove(filepath.Join(s.Dir, username+ext))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns the usernames that currently have an image on disk.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	return names, nil
}

// Handler serves the images; mount it under the /qrcodes/ prefix.
func (s *Store) Handler() http.Handler {
	return http.FileServer(http.Dir(s.Dir))
}
