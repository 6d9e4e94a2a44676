package services

import "log"

// Submission carries everything the moderator notification needs.
type Submission struct {
	SubjectID       uint
	SubjectName     string
	ContentType     string // quiz, canvas
	ContentID       uint
	ContentTitle    string
	ContributorName string
	ChapterTitle    string
}

// Notifier delivers moderator notifications. Sends are best-effort: callers
// dispatch them in a goroutine and never propagate failures.
type Notifier interface {
	NotifySubmission(sub Submission) error
}

// LogNotifier writes the notification to the application log. The actual
// delivery channel lives behind this interface.
type LogNotifier struct {
	Logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{Logger: logger}
}

func (n *LogNotifier) NotifySubmission(sub Submission) error {
	n.Logger.Printf("moderation: new %s %q (id=%d) submitted by %s in %s / %s",
		sub.ContentType, sub.ContentTitle, sub.ContentID,
		sub.ContributorName, sub.SubjectName, sub.ChapterTitle)
	return nil
}
