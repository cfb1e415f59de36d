package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"smartchat/dataset"
	"smartchat/model"
	"smartchat/session"
)

// turnJSON is the API view of a turn. Binary payloads are served by URL.
type turnJSON struct {
	Index     int       `json:"index"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Error     bool      `json:"error,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	ChartURL  string    `json:"chart_url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type chatRequest struct {
	Message string `json:"message" form:"message"`
}

func toJSON(i int, t model.Turn) turnJSON {
	out := turnJSON{
		Index:     i,
		Role:      string(t.Role),
		Text:      t.Text,
		Error:     t.Error,
		Timestamp: t.Timestamp,
	}
	if t.HasImage() {
		out.ImageURL = imageURL(i)
	}
	if t.HasChart() {
		out.ChartURL = chartURL(i)
	}
	return out
}

func imageURL(i int) string { return "/turns/" + strconv.Itoa(i) + "/image" }
func chartURL(i int) string { return "/turns/" + strconv.Itoa(i) + "/chart.png" }

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"version":  s.opts.Version,
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) index(c *gin.Context) {
	sess := currentSession(c)
	view := buildPage(sess, s.opts)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(c.Writer, view); err != nil {
		s.log.Error().Err(err).Msg("failed to render page")
		c.Status(http.StatusInternalServerError)
	}
}

func (s *Server) submitForm(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBind(&req); err != nil {
		s.badUpload(c, err)
		return
	}
	// Empty submissions just re-show the page.
	_ = currentSession(c).SubmitTurn(c.Request.Context(), req.Message)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) submitJSON(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	sess := currentSession(c)
	first, turns, err := sess.Exchange(c.Request.Context(), req.Message)
	if err != nil {
		if errors.Is(err, session.ErrEmptyTurn) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	added := make([]turnJSON, len(turns))
	for i, t := range turns {
		added[i] = toJSON(first+i, t)
	}
	c.JSON(http.StatusOK, gin.H{"turns": added})
}

func (s *Server) listTurns(c *gin.Context) {
	turns := currentSession(c).Turns()
	out := make([]turnJSON, len(turns))
	for i, t := range turns {
		out[i] = toJSON(i, t)
	}
	c.JSON(http.StatusOK, gin.H{"turns": out})
}

func (s *Server) attachImage(c *gin.Context) {
	name, data, err := readUpload(c, "image")
	if err != nil {
		s.badUpload(c, err)
		return
	}
	// Decode failures are reported in the conversation.
	_ = currentSession(c).AttachImage(data, name)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) discardImage(c *gin.Context) {
	currentSession(c).DiscardImage()
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) loadDataset(c *gin.Context) {
	var src dataset.Source
	if url := strings.TrimSpace(c.PostForm("url")); url != "" {
		src = dataset.URLSource{URL: url}
	} else {
		name, data, err := readUpload(c, "file")
		if err != nil {
			s.badUpload(c, err)
			return
		}
		src = dataset.FileSource{FileName: name, Data: data}
	}
	_ = currentSession(c).LoadDataset(c.Request.Context(), src)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) clearDataset(c *gin.Context) {
	currentSession(c).ClearDataset()
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) reset(c *gin.Context) {
	currentSession(c).Reset()
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) turnImage(c *gin.Context) {
	t, ok := s.turnParam(c)
	if !ok || !t.HasImage() {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, t.Image.MIMEType, t.Image.Data)
}

func (s *Server) turnChart(c *gin.Context) {
	t, ok := s.turnParam(c)
	if !ok || !t.HasChart() {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, "image/png", t.Chart)
}

func (s *Server) turnParam(c *gin.Context) (model.Turn, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return model.Turn{}, false
	}
	return currentSession(c).Turn(i)
}

func readUpload(c *gin.Context, field string) (string, []byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}
	return fh.Filename, data, nil
}

func (s *Server) badUpload(c *gin.Context, err error) {
	if tooLarge(err) {
		c.String(http.StatusRequestEntityTooLarge, "Upload is larger than %s.",
			humanize.Bytes(uint64(s.opts.MaxUploadBytes)))
		return
	}
	if errors.Is(err, http.ErrMissingFile) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.String(http.StatusBadRequest, "Invalid upload: %v", err)
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || (err != nil && strings.Contains(err.Error(), "request body too large"))
}
