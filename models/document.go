package models

type CorpusDocument struct {
	DocId    string
	Name     string
	MimeType string
	Corpus   string
}

type CorpusDocumentInput struct {
	CorpusUri string
	FileName  string
	MimeType  string
	Content   []byte
}
