package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Requests    *RequestHandler
	Candidates  *CandidateHandler
	Interviews  *InterviewHandler
	Evaluations *EvaluationHandler
	Passes      *PassHandler
	// PassGuard wraps the /pass/* view routes; typically RequirePass.
	PassGuard  func(http.Handler) http.Handler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Requests != nil {
		mux.HandleFunc("/requests", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Requests.List(w, r)
			case http.MethodPost:
				cfg.Requests.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/requests/", func(w http.ResponseWriter, r *http.Request) {
			id, sub := splitResourcePath(r.URL.Path, "/requests/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithRequestID(r.Context(), id))

			switch sub {
			case "":
				switch r.Method {
				case http.MethodGet:
					cfg.Requests.Get(w, r)
				case http.MethodPut:
					cfg.Requests.Update(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPut)
				}
			case "approvals":
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Requests.Approve(w, r)
			case "interview-setup":
				if cfg.Interviews == nil {
					http.NotFound(w, r)
					return
				}
				switch r.Method {
				case http.MethodGet:
					cfg.Interviews.GetSetup(w, r)
				case http.MethodPost:
					cfg.Interviews.CreateSetup(w, r)
				case http.MethodPut:
					cfg.Interviews.UpdateSetup(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodPut)
				}
			case "slots":
				if cfg.Interviews == nil {
					http.NotFound(w, r)
					return
				}
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Interviews.AvailableSlots(w, r)
			case "interviews":
				if cfg.Interviews == nil {
					http.NotFound(w, r)
					return
				}
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Interviews.ConfirmedInterviews(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Candidates != nil {
		mux.HandleFunc("/candidates", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Candidates.List(w, r)
			case http.MethodPost:
				cfg.Candidates.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/candidates/", func(w http.ResponseWriter, r *http.Request) {
			id, sub := splitResourcePath(r.URL.Path, "/candidates/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithCandidateID(r.Context(), id))

			switch sub {
			case "":
				switch r.Method {
				case http.MethodGet:
					cfg.Candidates.Get(w, r)
				case http.MethodPut:
					cfg.Candidates.Update(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPut)
				}
			case "stage":
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Candidates.MoveStage(w, r)
			case "rejection":
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Candidates.Reject(w, r)
			default:
				http.NotFound(w, r)
			}
		})
		mux.HandleFunc("/pipeline/counts", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Candidates.PipelineCounts(w, r)
		})
	}

	if cfg.Interviews != nil {
		mux.HandleFunc("/interview-setups/", func(w http.ResponseWriter, r *http.Request) {
			id, sub := splitResourcePath(r.URL.Path, "/interview-setups/")
			if id == "" || sub != "slots" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			r = r.WithContext(ContextWithSetupID(r.Context(), id))
			cfg.Interviews.CreateSlots(w, r)
		})
		mux.HandleFunc("/slots/", func(w http.ResponseWriter, r *http.Request) {
			id, sub := splitResourcePath(r.URL.Path, "/slots/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			r = r.WithContext(ContextWithSlotID(r.Context(), id))

			switch sub {
			case "booking":
				cfg.Interviews.Book(w, r)
			case "confirmation":
				cfg.Interviews.Confirm(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Evaluations != nil {
		mux.HandleFunc("/evaluations", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Evaluations.List(w, r)
			case http.MethodPost:
				cfg.Evaluations.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
	}

	if cfg.Passes != nil {
		candidateView := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Passes.CandidateView(w, r)
		})
		managerView := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Passes.ManagerView(w, r)
		})
		if cfg.PassGuard != nil {
			mux.Handle("/pass/candidate", cfg.PassGuard(candidateView))
			mux.Handle("/pass/manager", cfg.PassGuard(managerView))
		} else {
			mux.Handle("/pass/candidate", candidateView)
			mux.Handle("/pass/manager", managerView)
		}

		mux.HandleFunc("/passes", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Passes.Issue(w, r)
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

// splitResourcePath separates "/prefix/{id}[/sub]" into its id and first
// sub-resource segment.
func splitResourcePath(path, prefix string) (id, sub string) {
	rest := strings.TrimPrefix(path, prefix)
	if rest == path {
		return "", ""
	}
	id, sub, _ = strings.Cut(rest, "/")
	return id, sub
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
