package dto

import (
	"encoding/base64"

	"github.com/checkmarble/caregiver-uploads/models"
	"github.com/checkmarble/caregiver-uploads/pure_utils"
)

type RedactionStatusDto struct {
	EnableDlp   bool   `json:"enableDlp"`
	ProjectId   string `json:"projectId"`
	Location    string `json:"location"`
	ClientReady bool   `json:"clientReady"`
}

func AdaptRedactionStatusDto(status models.RedactionStatus) RedactionStatusDto {
	return RedactionStatusDto{
		EnableDlp:   status.Enabled,
		ProjectId:   status.ProjectId,
		Location:    status.Location,
		ClientReady: status.ClientReady,
	}
}

type RedactTextBody struct {
	Text string `json:"text" binding:"required"`
}

type TextRedactionDto struct {
	InputLength  int                   `json:"input_len"`
	OutputLength int                   `json:"output_len"`
	Findings     []RedactionFindingDto `json:"findings"`
	RedactedText string                `json:"redactedText"`
}

func AdaptTextRedactionDto(result models.TextRedactionResult) TextRedactionDto {
	return TextRedactionDto{
		InputLength:  result.InputLength,
		OutputLength: result.OutputLength,
		Findings:     pure_utils.Map(result.Findings, AdaptRedactionFindingDto),
		RedactedText: result.RedactedText,
	}
}

type RedactedTextFileDto struct {
	RedactedText string                `json:"redactedText"`
	Findings     []RedactionFindingDto `json:"findings"`
}

type RedactedImageFileDto struct {
	ImageBase64 string `json:"imageBase64"`
	MimeType    string `json:"mimeType"`
}

func AdaptRedactedTextFileDto(result models.FileRedactionResult) RedactedTextFileDto {
	return RedactedTextFileDto{
		RedactedText: string(result.Content),
		Findings:     pure_utils.Map(result.Findings, AdaptRedactionFindingDto),
	}
}

func AdaptRedactedImageFileDto(result models.FileRedactionResult) RedactedImageFileDto {
	return RedactedImageFileDto{
		ImageBase64: base64.StdEncoding.EncodeToString(result.Content),
		MimeType:    result.MimeType,
	}
}
