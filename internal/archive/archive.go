// Package archive keeps completed interviews in sqlite for later review and
// export. The live question bank is not stored here; it persists as a JSON
// snapshot in the store package.
package archive

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/skillcheck/interviewer/internal/model"
)

// Archive is a sqlite-backed record of completed interviews.
type Archive struct {
	db *sql.DB
}

// New opens (and migrates) the archive database.
func New(dbPath string) (*Archive, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping archive: %w", err)
	}
	a := &Archive{db: db}
	if err := a.migrate(); err != nil {
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return a, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS interviews (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		interview_id TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL,
		candidate_name TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		ended_at DATETIME NOT NULL,
		overall_score REAL NOT NULL DEFAULT 0,
		decision TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS answers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		interview_id TEXT NOT NULL,
		question_id INTEGER NOT NULL,
		question_text TEXT NOT NULL,
		category TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		response TEXT NOT NULL,
		score INTEGER NOT NULL,
		evaluation_source TEXT NOT NULL,
		follow_up INTEGER NOT NULL DEFAULT 0,
		answered_at DATETIME NOT NULL,
		FOREIGN KEY (interview_id) REFERENCES interviews(interview_id)
	);
	`
	_, err := a.db.Exec(schema)
	return err
}

// Record stores a completed session with its report. Answers are written in
// submission order; a second answer against the same question id is the
// follow-up response.
func (a *Archive) Record(sess model.Session, rep model.Report) error {
	tx, err := a.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO interviews (interview_id, role, candidate_name, status, started_at, ended_at, overall_score, decision)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.InterviewID, sess.Role, sess.CandidateInfo["name"], sess.Status,
		sess.StartTime, sess.EndTime, rep.OverallScore, rep.HiringDecision.Decision,
	)
	if err != nil {
		return fmt.Errorf("insert interview: %w", err)
	}

	questionText := make(map[int]questionInfo, len(sess.Questions))
	for _, q := range sess.Questions {
		questionText[q.ID] = questionInfo{text: q.Text, category: q.Category, difficulty: q.Difficulty}
	}

	for i, r := range sess.Responses {
		info := questionText[r.QuestionID]
		var score int
		var source model.EvaluationSource
		if i < len(sess.Evaluations) {
			score = sess.Evaluations[i].Score
			source = sess.Evaluations[i].Source
		}
		followUp := i > 0 && sess.Responses[i-1].QuestionID == r.QuestionID

		_, err = tx.Exec(
			`INSERT INTO answers (interview_id, question_id, question_text, category, difficulty, response, score, evaluation_source, follow_up, answered_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sess.InterviewID, r.QuestionID, info.text, info.category, info.difficulty,
			r.Response, score, source, followUp, r.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("insert answer: %w", err)
		}
	}

	return tx.Commit()
}

type questionInfo struct {
	text       string
	category   model.Category
	difficulty model.Difficulty
}

// List returns archived interviews, newest first, without their answers.
func (a *Archive) List() ([]model.InterviewResult, error) {
	rows, err := a.db.Query(
		`SELECT interview_id, role, candidate_name, status, started_at, ended_at, overall_score, decision
		 FROM interviews ORDER BY id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.InterviewResult
	for rows.Next() {
		var r model.InterviewResult
		if err := rows.Scan(&r.InterviewID, &r.Role, &r.CandidateName, &r.Status,
			&r.StartedAt, &r.EndedAt, &r.OverallScore, &r.Decision); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Get returns one archived interview with its answers.
func (a *Archive) Get(interviewID string) (model.InterviewResult, error) {
	var r model.InterviewResult
	err := a.db.QueryRow(
		`SELECT interview_id, role, candidate_name, status, started_at, ended_at, overall_score, decision
		 FROM interviews WHERE interview_id = ?`, interviewID,
	).Scan(&r.InterviewID, &r.Role, &r.CandidateName, &r.Status,
		&r.StartedAt, &r.EndedAt, &r.OverallScore, &r.Decision)
	if err != nil {
		return r, err
	}

	answers, err := a.answersFor(interviewID)
	if err != nil {
		return r, err
	}
	r.Answers = answers
	return r, nil
}

// ExportAll builds export-ready results for every archived interview.
func (a *Archive) ExportAll() ([]model.InterviewResult, error) {
	results, err := a.List()
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	for i := range results {
		answers, err := a.answersFor(results[i].InterviewID)
		if err != nil {
			return nil, fmt.Errorf("answers for %s: %w", results[i].InterviewID, err)
		}
		results[i].Answers = answers
	}
	return results, nil
}

func (a *Archive) answersFor(interviewID string) ([]model.AnswerResult, error) {
	rows, err := a.db.Query(
		`SELECT question_id, question_text, category, difficulty, response, score, evaluation_source, follow_up, answered_at
		 FROM answers WHERE interview_id = ? ORDER BY id`, interviewID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.AnswerResult
	for rows.Next() {
		var ans model.AnswerResult
		if err := rows.Scan(&ans.QuestionID, &ans.QuestionText, &ans.Category, &ans.Difficulty,
			&ans.Response, &ans.Score, &ans.Source, &ans.FollowUp, &ans.AnsweredAt); err != nil {
			return nil, err
		}
		answers = append(answers, ans)
	}
	return answers, rows.Err()
}

// InterviewCount returns the number of archived interviews.
func (a *Archive) InterviewCount() (int, error) {
	var count int
	err := a.db.QueryRow(`SELECT COUNT(*) FROM interviews`).Scan(&count)
	return count, err
}
