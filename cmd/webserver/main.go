package main

import (
	"fmt"
	"html/template"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	scitalk "github.com/chaeyeong25/Scitalk"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
)

const sessionCookieName = "scitalk-session"

type Server struct {
	cfg       *scitalk.Config
	cookies   *sessions.CookieStore
	sessions  *scitalk.SessionStore
	wf        *scitalk.Workflow
	exporter  *scitalk.PDFExporter
	templates map[string]*template.Template
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	cfg, err := scitalk.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	scitalk.SetVerbose(cfg.Verbose)

	exporter, err := scitalk.NewPDFExporter(cfg.FontDir)
	if err != nil {
		log.Fatalf("Failed to load export fonts: %v", err)
	}

	templates, err := loadTemplates(cfg.TemplateDir)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	server := &Server{
		cfg:       cfg,
		cookies:   sessions.NewCookieStore([]byte(cfg.SessionSecret)),
		sessions:  scitalk.NewSessionStore(cfg.TranscriptDir),
		wf:        scitalk.NewWorkflow(scitalk.NewClient(cfg.OpenAIKey, cfg.Model)),
		exporter:  exporter,
		templates: templates,
	}

	log.Printf("Starting server on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, server.routes()))
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Post("/topic", s.handleTopic)
	r.Post("/question", s.handleQuestion)
	r.Post("/answer", s.handleAnswer)
	r.Post("/followup", s.handleFollowUp)
	r.Get("/export", s.handleExport)
	return r
}

func loadTemplates(dir string) (map[string]*template.Template, error) {
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
	}

	templates := make(map[string]*template.Template)
	for _, name := range []string{"home"} {
		tmpl, err := template.New(name).Funcs(funcMap).ParseFiles(
			filepath.Join(dir, "base.html"),
			filepath.Join(dir, name+".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// session resolves the caller's server-side session, minting an opaque id
// into the cookie on first contact.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *scitalk.Session {
	cookie, _ := s.cookies.Get(r, sessionCookieName)
	id, ok := cookie.Values["id"].(string)
	if !ok || id == "" {
		id = newSessionID()
		cookie.Values["id"] = id
		if err := cookie.Save(r, w); err != nil {
			log.Printf("Session save error: %v", err)
		}
	}
	return s.sessions.Get(id)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	sess := s.session(w, r)
	notice := sess.Notice
	sess.Notice = ""

	err := s.templates["home"].ExecuteTemplate(w, "base.html", map[string]interface{}{
		"Session":            sess,
		"GradeLevels":        scitalk.GradeLevels(),
		"HighSchoolSubjects": scitalk.HighSchoolSubjects(),
		"IsHighSchool":       scitalk.IsHighSchool(sess.GradeLevel),
		"Approved":           sess.CanGenerateQuestion(),
		"CanAnswer":          sess.CanAnswer(),
		"CanExport":          sess.CanExport(),
		"Notice":             notice,
	})
	if err != nil {
		log.Printf("Template error in home: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

func (s *Server) handleTopic(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	sess := s.session(w, r)
	gradeLevel := r.FormValue("grade_level")
	subjectName := r.FormValue("subject_name")
	if !scitalk.IsHighSchool(gradeLevel) {
		subjectName = scitalk.SubjectFor(gradeLevel)
	}

	sess.SetTopic(gradeLevel, subjectName, r.FormValue("topic"))
	s.wf.VerifyTopic(r.Context(), sess)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if err := s.wf.GenerateQuestion(r.Context(), sess); err != nil {
		log.Printf("Question generation failed: %v", err)
		sess.Notice = fmt.Sprintf("AI 생성 오류: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	sess := s.session(w, r)
	if err := s.wf.GenerateFeedback(r.Context(), sess, r.FormValue("student_answer")); err != nil {
		log.Printf("Feedback generation failed: %v", err)
		sess.Notice = fmt.Sprintf("AI 피드백 생성 오류: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleFollowUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	sess := s.session(w, r)
	reply, accepted, err := s.wf.AnswerStudentQuestion(r.Context(), sess, r.FormValue("student_question"))
	switch {
	case err != nil:
		log.Printf("Follow-up answer failed: %v", err)
		sess.Notice = fmt.Sprintf("AI 응답 생성 오류: %v", err)
	case !accepted:
		sess.Notice = reply
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if !sess.CanExport() {
		http.Error(w, "Feedback must be generated before export", http.StatusConflict)
		return
	}

	doc, err := s.exporter.Render(sess)
	if err != nil {
		log.Printf("PDF render failed: %v", err)
		http.Error(w, "Failed to render PDF", http.StatusInternalServerError)
		return
	}

	// The filename carries Korean text, so an RFC 5987 encoded name is sent
	// alongside a plain ASCII fallback.
	name := url.PathEscape(scitalk.ExportFilename(sess))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="SciTalk.pdf"; filename*=UTF-8''%s`, name))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	if _, err := w.Write(doc); err != nil {
		log.Printf("Failed to send PDF: %v", err)
	}
}

func newSessionID() string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 16)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
