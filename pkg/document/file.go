package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Read decodes and schema-checks a document.
func Read(r io.Reader, codec Codec) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var generic any

	err = codec.Decode(bytes.NewReader(data), &generic)
	if err != nil {
		return nil, err
	}

	err = ValidateSchema(generic)
	if err != nil {
		return nil, err
	}

	var doc Document

	err = codec.Decode(bytes.NewReader(data), &doc)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// Write encodes a document.
func Write(w io.Writer, codec Codec, doc *Document) error {
	return codec.Encode(w, doc)
}

// Load reads the document at path, choosing the codec from its extension.
func Load(path string) (*Document, error) {
	codec, err := CodecFor(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}

	defer file.Close()

	return Read(file, codec)
}

// Save writes the document to path, choosing the codec from its extension.
func Save(path string, doc *Document) error {
	codec, err := CodecFor(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	err = Write(file, codec, doc)
	if err != nil {
		_ = file.Close()

		return err
	}

	err = file.Close()
	if err != nil {
		return fmt.Errorf("close document: %w", err)
	}

	return nil
}
