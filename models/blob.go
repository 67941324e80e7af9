package models

type BlobAttributes struct {
	FileName    string
	ContentType string
	Size        int64
	Metadata    map[string]string
}

type BlobWriteOptions struct {
	ContentType string
	Metadata    map[string]string
}
