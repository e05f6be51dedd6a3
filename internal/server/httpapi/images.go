package httpapi

import (
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophsession/internal/common"
)

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// pickIndex chooses one of n images. Tests replace it.
var pickIndex = rand.Intn

func (s *Server) randomImage(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.imagesDir)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	var images []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			if _, ok := imageTypes[strings.ToLower(filepath.Ext(e.Name()))]; ok {
				images = append(images, e.Name())
			}
		}
	}
	if len(images) == 0 {
		writeJSON(w, http.StatusInternalServerError, common.ErrorBody{Error: "No images found"})
		return
	}

	name := images[pickIndex(len(images))]
	data, err := os.ReadFile(filepath.Join(s.imagesDir, name))
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", imageTypes[strings.ToLower(filepath.Ext(name))])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
