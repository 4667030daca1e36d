package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/foxseedlab/mensetsu/internal/interview"
)

const (
	titleText               = "Отчет по собеседованию"
	headingCandidate        = "Информация о кандидате"
	headingDialog           = "Диалог собеседования"
	headingAnalytics        = "Аналитический отчет"
	labelUserID             = "ID пользователя"
	labelInterviewDate      = "Дата собеседования"
	labelStartTime          = "Время начала"
	labelEndTime            = "Время завершения"
	dateLayout              = "02.01.2006"
	clockLayout             = "15:04"
	dialogClockLayout       = "15:04:05"
	fileNameTimestampLayout = "20060102_150405"
)

type BlockKind int

const (
	BlockTitle BlockKind = iota
	BlockHeading
	BlockParagraph
)

// Block is one paragraph of the report. Text may contain "\n", rendered as a line break.
type Block struct {
	Kind BlockKind
	Text string
}

type Document struct {
	Blocks []Block
}

func (d *Document) add(kind BlockKind, text string) {
	d.Blocks = append(d.Blocks, Block{Kind: kind, Text: text})
}

var analyticsSectionLine = regexp.MustCompile(`^[1-7]\.`)

// Build lays out the report. All timestamps are rendered in loc.
func Build(userID string, transcript interview.Transcript, analytics string, now time.Time, loc *time.Location) Document {
	now = now.In(loc)
	start := now
	if first, ok := firstEntry(transcript); ok {
		start = first.Timestamp.In(loc)
	}

	var doc Document
	doc.add(BlockTitle, titleText+"\n"+now.Format(dateLayout+" "+clockLayout))

	doc.add(BlockHeading, headingCandidate)
	doc.add(BlockParagraph, fmt.Sprintf("%s: %s", labelUserID, userID))
	doc.add(BlockParagraph, fmt.Sprintf("%s: %s", labelInterviewDate, now.Format(dateLayout)))
	doc.add(BlockParagraph, fmt.Sprintf("%s: %s", labelStartTime, start.Format(clockLayout)))
	doc.add(BlockParagraph, fmt.Sprintf("%s: %s", labelEndTime, now.Format(clockLayout)))

	doc.add(BlockHeading, headingDialog)
	for _, e := range transcript {
		doc.add(BlockParagraph, fmt.Sprintf("[%s] %s: %s", e.Timestamp.In(loc).Format(dialogClockLayout), e.Speaker(), e.Text))
	}

	doc.add(BlockHeading, headingAnalytics)
	doc.Blocks = append(doc.Blocks, ParseAnalytics(analytics)...)
	return doc
}

func firstEntry(t interview.Transcript) (interview.Entry, bool) {
	if len(t) == 0 {
		return interview.Entry{}, false
	}
	return t[0], true
}

// ParseAnalytics turns the model's report into blocks: lines starting with "1."
// through "7." become headings, blank lines end a paragraph and other lines are
// joined with a space.
func ParseAnalytics(text string) []Block {
	var (
		blocks    []Block
		paragraph []string
	)
	flush := func() {
		if len(paragraph) > 0 {
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: strings.Join(paragraph, " ")})
			paragraph = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			flush()
		case analyticsSectionLine.MatchString(line):
			flush()
			blocks = append(blocks, Block{Kind: BlockHeading, Text: line})
		default:
			paragraph = append(paragraph, line)
		}
	}
	flush()
	return blocks
}

func FileName(userID string, now time.Time) string {
	return fmt.Sprintf("interview_report_%s_%s.docx", userID, now.Format(fileNameTimestampLayout))
}
