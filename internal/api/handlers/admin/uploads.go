package admin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/5w1tchy/oku-storefront/internal/api/apperr"
	"github.com/5w1tchy/oku-storefront/internal/api/httpx"
	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/i18n"
	"github.com/5w1tchy/oku-storefront/internal/storage/s3"
	"github.com/5w1tchy/oku-storefront/internal/web"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type uploadFunc func(ctx context.Context, token, filename string, r io.Reader) (*backend.Upload, error)

// GET /admin/uploads
func (h *Handler) Uploads(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, r, http.StatusOK, "uploads", h.uploadsPage(r.Context(), token(r), nil))
}

func (h *Handler) uploadsPage(ctx context.Context, tok string, uploaded *backend.Upload) web.UploadsPage {
	p := web.UploadsPage{Uploaded: uploaded, CoversEnabled: h.Covers != nil}
	var g errgroup.Group
	g.Go(func() error {
		banners, err := h.API.AllDiscountBanners(ctx, tok)
		if err != nil {
			h.Log.Warn("banner list failed; showing empty", zap.Error(err))
		}
		p.Banners = banners
		return nil
	})
	g.Go(func() error {
		images, err := h.API.AllImages(ctx, tok)
		if err != nil {
			h.Log.Warn("image list failed; showing empty", zap.Error(err))
		}
		p.Images = images
		return nil
	})
	_ = g.Wait()
	return p
}

// POST /admin/uploads/banner (multipart "file")
func (h *Handler) UploadBanner(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "file", "banner.upload", h.API.UploadDiscountBanner)
}

// POST /admin/uploads/images (multipart "image")
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "image", "image.upload", h.API.UploadImage)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request, field, action string, send uploadFunc) {
	file, hdr, err := r.FormFile(field)
	if err != nil {
		h.Views.RenderError(w, r, http.StatusBadRequest, "uploads", h.uploadsPage(r.Context(), token(r), nil), i18n.MsgUploadFailed)
		return
	}
	defer file.Close()

	up, err := send(r.Context(), token(r), hdr.Filename, file)
	if err != nil {
		if refused(err) {
			h.Views.SessionExpired(w, r)
			return
		}
		h.Log.Warn("upload failed", zap.String("action", action), zap.String("filename", hdr.Filename), zap.Error(err))
		h.Views.RenderError(w, r, http.StatusBadGateway, "uploads", h.uploadsPage(r.Context(), token(r), nil), i18n.MsgUploadFailed)
		return
	}
	h.record(r, action, up.URL, map[string]any{"filename": hdr.Filename, "size": hdr.Size})
	h.Views.Render(w, r, http.StatusOK, "uploads", h.uploadsPage(r.Context(), token(r), up))
}

// POST /admin/uploads/banner/delete
func (h *Handler) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	if !h.checkRateLimit(w, r, "delete") {
		return
	}
	if err := h.API.DeleteDiscountBanner(r.Context(), token(r)); err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.record(r, "banner.delete", "", nil)
	http.Redirect(w, r, "/admin/uploads", http.StatusSeeOther)
}

// POST /admin/uploads/images/{publicId}/delete
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	publicID := strings.TrimSpace(r.PathValue("publicId"))
	if publicID == "" {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	if !h.checkRateLimit(w, r, "delete") {
		return
	}
	if err := h.API.DeleteImage(r.Context(), token(r), publicID); err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.record(r, "image.delete", publicID, nil)
	http.Redirect(w, r, "/admin/uploads", http.StatusSeeOther)
}

// GET /admin/uploads/banner/info
func (h *Handler) BannerInfo(w http.ResponseWriter, r *http.Request) {
	raw, err := h.API.DiscountBannerInfo(r.Context(), token(r))
	writeRaw(w, r, raw, err)
}

// GET /admin/uploads/images/{publicId}
func (h *Handler) ImageInfo(w http.ResponseWriter, r *http.Request) {
	raw, err := h.API.ImageInfo(r.Context(), token(r), r.PathValue("publicId"))
	writeRaw(w, r, raw, err)
}

func writeRaw(w http.ResponseWriter, r *http.Request, raw json.RawMessage, err error) {
	if apperr.HandleError(w, r, err, "Upload info unavailable") {
		return
	}
	httpx.OK(w, raw)
}

// POST /admin/covers/presign (contentType)
func (h *Handler) PresignCover(w http.ResponseWriter, r *http.Request) {
	if h.Covers == nil {
		httpx.ErrorJSON(w, http.StatusNotFound, "cover storage is not configured")
		return
	}
	ct := r.FormValue("contentType")
	up, err := h.Covers.PresignCoverUpload(r.Context(), ct)
	switch {
	case errors.Is(err, s3.ErrContentType):
		httpx.ErrorJSON(w, http.StatusUnsupportedMediaType, err.Error())
		return
	case err != nil:
		h.Log.Error("cover presign failed", zap.Error(err))
		httpx.ErrorJSON(w, http.StatusBadGateway, "presign failed")
		return
	}
	h.record(r, "cover.presign", up.Key, map[string]any{"contentType": ct})
	httpx.OK(w, up)
}
