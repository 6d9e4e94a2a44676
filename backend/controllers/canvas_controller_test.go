package controllers_test

import (
	"fmt"
	"strings"
	"testing"

	"sirb_backend/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvasCommentsOverHTTP(t *testing.T) {
	app, db, cfg := newTestApp(t)
	contributor, _ := seedUser(t, db, cfg, "contributor", models.RoleUser)
	_, studentToken := seedUser(t, db, cfg, "student", models.RoleUser)
	moderator, moderatorToken := seedUser(t, db, cfg, "moderator", models.RoleUser)
	subject, chapter := seedChapter(t, db)
	require.NoError(t, db.Create(&models.SubjectModerator{SubjectID: subject.ID, UserID: moderator.ID}).Error)
	canvas := seedApprovedCanvas(t, db, chapter.ID, contributor.ID)

	base := fmt.Sprintf("/api/canvases/%d/comments", canvas.ID)

	resp := doJSON(t, app, "POST", base, studentToken, map[string]interface{}{"text": "سؤال عن الفقرة الثانية"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	comment := decodeBody(t, resp)["comment"].(map[string]interface{})
	commentID := uint(comment["id"].(float64))

	resp = doJSON(t, app, "POST", base, moderatorToken, map[string]interface{}{
		"text":              "الإجابة هنا",
		"parent_comment_id": commentID,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	replyID := uint(decodeBody(t, resp)["comment"].(map[string]interface{})["id"].(float64))

	// Replies to replies are refused.
	resp = doJSON(t, app, "POST", base, studentToken, map[string]interface{}{
		"text":              "رد على الرد",
		"parent_comment_id": replyID,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Pinning needs moderator rights on the subject.
	flagsPath := fmt.Sprintf("%s/%d/flags", base, commentID)
	resp = doJSON(t, app, "PUT", flagsPath, studentToken, map[string]interface{}{"is_pinned": true})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp = doJSON(t, app, "PUT", flagsPath, moderatorToken, map[string]interface{}{"is_pinned": true})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", base, studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	comments := decodeBody(t, resp)["comments"].([]interface{})
	require.Len(t, comments, 1)
	top := comments[0].(map[string]interface{})
	assert.Equal(t, true, top["is_pinned"])
	assert.Len(t, top["replies"].([]interface{}), 1)

	// Deleting the threaded comment leaves a placeholder.
	resp = doJSON(t, app, "DELETE", fmt.Sprintf("%s/%d", base, commentID), studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doJSON(t, app, "GET", base, studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	comments = decodeBody(t, resp)["comments"].([]interface{})
	require.Len(t, comments, 1)
	assert.Equal(t, "تم حذف هذا التعليق", comments[0].(map[string]interface{})["text"])
}

func TestCommentVoteTargetsTheComment(t *testing.T) {
	app, db, cfg := newTestApp(t)
	contributor, _ := seedUser(t, db, cfg, "contributor", models.RoleUser)
	_, studentToken := seedUser(t, db, cfg, "student", models.RoleUser)
	_, voterToken := seedUser(t, db, cfg, "voter", models.RoleUser)
	_, chapter := seedChapter(t, db)
	canvas := seedApprovedCanvas(t, db, chapter.ID, contributor.ID)

	resp := doJSON(t, app, "POST", fmt.Sprintf("/api/canvases/%d/comments", canvas.ID), studentToken,
		map[string]interface{}{"text": "تعليق"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	commentID := uint(decodeBody(t, resp)["comment"].(map[string]interface{})["id"].(float64))

	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/canvases/%d/comments/%d/vote", canvas.ID, commentID),
		voterToken, map[string]string{"vote_type": "LIKE"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The comment's counters move, the canvas's do not.
	var comment models.CanvasComment
	require.NoError(t, db.First(&comment, commentID).Error)
	assert.Equal(t, 1, comment.NetScore)
	var gotCanvas models.Canvas
	require.NoError(t, db.First(&gotCanvas, canvas.ID).Error)
	assert.Equal(t, 0, gotCanvas.NetScore)
}

func TestGetCanvasUnapprovedVisibility(t *testing.T) {
	app, db, cfg := newTestApp(t)
	contributor, contributorToken := seedUser(t, db, cfg, "contributor", models.RoleUser)
	_, strangerToken := seedUser(t, db, cfg, "stranger", models.RoleUser)
	_, chapter := seedChapter(t, db)

	canvas := models.Canvas{
		Title:         "مسودة شرح",
		CanvasType:    models.CanvasTypeText,
		Body:          "نص",
		ChapterID:     chapter.ID,
		ContributorID: contributor.ID,
		Sequence:      1,
		Status:        models.StatusPending,
	}
	require.NoError(t, db.Create(&canvas).Error)
	path := fmt.Sprintf("/api/canvases/%d", canvas.ID)

	resp := doJSON(t, app, "GET", path, strangerToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, "GET", path, contributorToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestReorderCanvasesOverHTTP(t *testing.T) {
	app, db, cfg := newTestApp(t)
	contributor, _ := seedUser(t, db, cfg, "contributor", models.RoleUser)
	_, adminToken := seedUser(t, db, cfg, "admin", models.RoleAdmin)
	_, chapter := seedChapter(t, db)

	var ids []uint
	for i := 1; i <= 2; i++ {
		canvas := models.Canvas{
			Title:         fmt.Sprintf("لوحة %d", i),
			CanvasType:    models.CanvasTypeText,
			Body:          "نص",
			ChapterID:     chapter.ID,
			ContributorID: contributor.ID,
			Sequence:      i,
			Status:        models.StatusApproved,
		}
		require.NoError(t, db.Create(&canvas).Error)
		ids = append(ids, canvas.ID)
	}

	resp := doJSON(t, app, "POST", fmt.Sprintf("/api/chapters/%d/canvases/reorder", chapter.ID), adminToken, map[string]interface{}{
		"updates": []map[string]interface{}{
			{"item_id": ids[0], "sequence": 2},
			{"item_id": ids[1], "sequence": 1},
		},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var first, second models.Canvas
	require.NoError(t, db.First(&first, ids[0]).Error)
	require.NoError(t, db.First(&second, ids[1]).Error)
	assert.Equal(t, 2, first.Sequence)
	assert.Equal(t, 1, second.Sequence)
}

func TestEnrollmentOverHTTP(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, studentToken := seedUser(t, db, cfg, "student", models.RoleUser)
	subject, _ := seedChapter(t, db)

	path := fmt.Sprintf("/api/subjects/%d/enroll", subject.ID)

	resp := doJSON(t, app, "POST", path, studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doJSON(t, app, "POST", path, studentToken, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/my/subjects", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	subjects := decodeBody(t, resp)["subjects"].([]interface{})
	require.Len(t, subjects, 1)

	resp = doJSON(t, app, "DELETE", path, studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doJSON(t, app, "GET", "/api/my/subjects", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody(t, resp)["subjects"])
}

func TestCreateUploadURL(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user, token := seedUser(t, db, cfg, "uploader", models.RoleUser)

	resp := doJSON(t, app, "POST", "/api/uploads/url", token, map[string]string{
		"file_name":    "lecture-01.mp4",
		"content_type": "video/mp4",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decodeBody(t, resp)
	key := result["key"].(string)
	assert.True(t, strings.HasPrefix(key, fmt.Sprintf("u%d/", user.ID)))
	assert.True(t, strings.HasSuffix(key, "/lecture-01.mp4"))
	assert.Equal(t, cfg.UploadBase+"/"+key, result["upload_url"])
	assert.Equal(t, float64(900), result["expires_in"])

	resp = doJSON(t, app, "POST", "/api/uploads/url", token, map[string]string{
		"file_name": "missing-content-type.bin",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
