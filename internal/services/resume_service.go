package services

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"code.sajari.com/docconv"
	"github.com/google/uuid"

	"github.com/Rushil1274/palcodeai-local-testing/internal/storage"
	"github.com/Rushil1274/palcodeai-local-testing/internal/utils"
)

// ResumeMeta is the best-effort field extraction from a parsed resume. These
// are hints for the operator, not authoritative candidate data.
type ResumeMeta struct {
	ResumeID     string   `json:"resume_id"`
	NameGuess    string   `json:"name_guess"`
	Email        string   `json:"email,omitempty"`
	PhoneGuess   string   `json:"phone_guess,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	ArtifactPath string   `json:"artifact_path"`
}

type ResumeService interface {
	Parse(ctx context.Context, filename string, r io.Reader) (*ResumeMeta, error)
}

type resumeService struct {
	store storage.Store
}

func NewResumeService(store storage.Store) ResumeService {
	return &resumeService{store: store}
}

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`(\+?\d[\d\s\-()]{7,})`)
	skillRe = regexp.MustCompile(`[,\|/\-]+`)
)

func (s *resumeService) Parse(ctx context.Context, filename string, r io.Reader) (*ResumeMeta, error) {
	const op = "ResumeService.Parse"

	text, err := ExtractDocumentText(filename, r)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "failed to extract resume text", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "empty resume", nil)
	}

	meta := &ResumeMeta{
		ResumeID:  uuid.NewString(),
		NameGuess: "Unknown",
		Email:     emailRe.FindString(text),
	}
	if m := phoneRe.FindStringSubmatch(text); m != nil {
		meta.PhoneGuess = strings.TrimSpace(m[1])
	}

	lines := nonEmptyLines(text)
	if len(lines) > 0 {
		meta.NameGuess = lines[0]
	}
	meta.Skills = guessSkills(lines)

	key := "resumes/resume_" + meta.ResumeID + ".txt"
	stored, err := s.store.Put(ctx, key, "text/plain; charset=utf-8", strings.NewReader(text))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist resume artifact", err)
	}
	meta.ArtifactPath = stored

	return meta, nil
}

// ExtractDocumentText converts PDF/DOCX/TXT uploads to plain text.
func ExtractDocumentText(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf", ".docx", ".doc", ".rtf", ".odt":
		res, err := docconv.Convert(r, docconv.MimeTypeByExtension(filename), true)
		if err != nil {
			return "", err
		}
		return res.Body, nil
	default:
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, r); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// guessSkills looks for a "skills" line near the top and splits it.
func guessSkills(lines []string) []string {
	limit := len(lines)
	if limit > 50 {
		limit = 50
	}
	for _, l := range lines[:limit] {
		if !strings.Contains(strings.ToLower(l), "skills") {
			continue
		}
		parts := strings.Split(l, ":")
		raw := skillRe.Split(parts[len(parts)-1], -1)
		var skills []string
		for _, sk := range raw {
			sk = strings.TrimSpace(sk)
			if sk != "" {
				skills = append(skills, sk)
			}
		}
		if len(skills) > 20 {
			skills = skills[:20]
		}
		return skills
	}
	return nil
}
