package httpapi

import (
	"net/http"
	"strings"

	"fresherjobs/marketplace-service/internal/auth"
	"fresherjobs/marketplace-service/internal/identity"
	"fresherjobs/marketplace-service/internal/jobs"
	"fresherjobs/marketplace-service/internal/lifecycle"
	"fresherjobs/marketplace-service/internal/model"
	"fresherjobs/marketplace-service/internal/profile"
)

// ─── Auth ────────────────────────────────────────────────────────────────────

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var in auth.RegisterInput
	if !decode(w, r, &in, false) {
		return
	}
	sess, err := h.Auth.Register(r.Context(), in)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	jsonCreated(w, sess)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if h.limited(w, r, h.LoginLimiter, clientIP(r)) {
		return
	}
	var in auth.LoginInput
	if !decode(w, r, &in, false) {
		return
	}
	sess, err := h.Auth.Login(r.Context(), in)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	jsonOK(w, sess)
}

// ─── Jobs ────────────────────────────────────────────────────────────────────

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := model.JobFilter{
		Query:    strings.TrimSpace(q.Get("q")),
		Location: strings.TrimSpace(q.Get("location")),
		JobType:  model.JobType(strings.TrimSpace(q.Get("jobType"))),
	}
	list, err := h.Jobs.ListPublic(r.Context(), f)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	jsonOK(w, list)
}

func (h *Handler) myJobs(w http.ResponseWriter, r *http.Request) {
	list, err := h.Jobs.ListMine(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	jsonOK(w, list)
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	v, err := h.Jobs.Get(r.Context(), identity.FromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	jsonOK(w, v)
}

func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	var in jobs.Input
	if !decode(w, r, &in, false) {
		return
	}
	v, err := h.Jobs.Create(r.Context(), identity.FromContext(r.Context()), in)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	jsonCreated(w, v)
}

func (h *Handler) updateJob(w http.ResponseWriter, r *http.Request) {
	var in jobs.Input
	if !decode(w, r, &in, false) {
		return
	}
	v, err := h.Jobs.Update(r.Context(), identity.FromContext(r.Context()), r.PathValue("id"), in)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	jsonOK(w, v)
}

func (h *Handler) deleteJob(w http.ResponseWriter, r *http.Request) {
	if err := h.Jobs.Delete(r.Context(), identity.FromContext(r.Context()), r.PathValue("id")); err != nil {
		writeErr(w, r, err)
		return
	}
	jsonOK(w, map[string]string{"message": "job deleted"})
}

// ─── Applications ────────────────────────────────────────────────────────────

func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	actor := identity.FromContext(r.Context())
	if actor != nil && h.limited(w, r, h.ApplyLimiter, actor.ID) {
		return
	}
	var body struct {
		ResumeURL   string `json:"resumeUrl"`
		CoverLetter string `json:"coverLetter"`
	}
	if !decode(w, r, &body, true) {
		return
	}
	v, err := h.Lifecycle.Apply(r.Context(), actor, r.PathValue("jobId"), lifecycle.ApplyInput{
		ResumeURL:   body.ResumeURL,
		CoverLetter: body.CoverLetter,
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	jsonCreated(w, v)
}

func (h *Handler) myApplications(w http.ResponseWriter, r *http.Request) {
	list, err := h.Lifecycle.ListMine(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	jsonOK(w, list)
}

func (h *Handler) applicants(w http.ResponseWriter, r *http.Request) {
	list, err := h.Lifecycle.ListApplicants(r.Context(), identity.FromContext(r.Context()), r.PathValue("jobId"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	jsonOK(w, list)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	app, err := h.Lifecycle.SetStatus(r.Context(), identity.FromContext(r.Context()),
		r.PathValue("id"), r.URL.Query().Get("status"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	jsonOK(w, app)
}

// ─── Profile ─────────────────────────────────────────────────────────────────

func (h *Handler) upsertProfile(w http.ResponseWriter, r *http.Request) {
	var in profile.Input
	if !decode(w, r, &in, false) {
		return
	}
	p, err := h.Profiles.Upsert(r.Context(), identity.FromContext(r.Context()), in)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	jsonOK(w, p)
}

func (h *Handler) myProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Profiles.GetMine(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	jsonOK(w, p)
}

// ─── Admin ───────────────────────────────────────────────────────────────────

func (h *Handler) approveRecruiter(w http.ResponseWriter, r *http.Request) {
	a, err := h.Approval.Approve(r.Context(), identity.FromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	jsonOK(w, a)
}

func (h *Handler) listRecruiters(w http.ResponseWriter, r *http.Request) {
	list, err := h.Approval.ListRecruiters(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	jsonOK(w, list)
}

func (h *Handler) listAllJobs(w http.ResponseWriter, r *http.Request) {
	list, err := h.Jobs.ListAll(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	jsonOK(w, list)
}

func (h *Handler) removeJob(w http.ResponseWriter, r *http.Request) {
	if err := h.Jobs.Remove(r.Context(), identity.FromContext(r.Context()), r.PathValue("id")); err != nil {
		writeErr(w, r, err)
		return
	}
	jsonOK(w, map[string]string{"message": "job removed"})
}

// ─── Account ─────────────────────────────────────────────────────────────────

func (h *Handler) deleteMe(w http.ResponseWriter, r *http.Request) {
	actor, err := identity.Require(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	res, err := h.Accounts.Delete(r.Context(), actor, actor.ID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	jsonOK(w, res)
}
