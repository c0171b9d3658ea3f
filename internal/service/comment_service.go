package service

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lumenlog/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MaxCommentLength 是评论内容的最大长度（按字符计）。
const MaxCommentLength = 2000

var (
	ErrCommentNotFound   = errors.New("comment not found")
	ErrCommentForbidden  = errors.New("not allowed to modify this comment")
	ErrCommentEmpty      = errors.New("comment content is required")
	ErrCommentTooLong    = errors.New("comment cannot exceed 2000 characters")
	ErrGuestNameRequired = errors.New("guest name is required")
	ErrSecretRequired    = errors.New("secret is required")
	ErrSecretInvalid     = errors.New("secret is incorrect")
)

// CommentService 负责评论的创建与游客口令鉴权。
//
// 游客评论在创建时附带一个口令，口令以 bcrypt 哈希存储，之后的编辑和
// 删除都靠重新出示口令授权；会员评论只认会话身份，两条路径互不相通。
type CommentService struct {
	db *gorm.DB
}

// CommentInput 表示创建评论时接受的字段。
type CommentInput struct {
	PostID     uint
	Content    string
	AuthorName string
	Secret     string
}

// NewCommentService 创建 CommentService 实例。
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// Create 创建评论。userID 非空时走会员路径，只设置 AuthorID；
// 匿名路径要求昵称与口令，口令哈希后与昵称一起存储。
func (s *CommentService) Create(input CommentInput, userID *uint) (*db.Comment, error) {
	content, err := validateCommentContent(input.Content)
	if err != nil {
		return nil, err
	}

	var post db.Post
	if err := s.db.First(&post, input.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.Status != db.PostStatusPublished {
		return nil, ErrPostNotPublished
	}

	comment := db.Comment{PostID: input.PostID, Content: content}

	if userID != nil {
		id := *userID
		comment.AuthorID = &id
	} else {
		name := strings.TrimSpace(input.AuthorName)
		if name == "" {
			return nil, ErrGuestNameRequired
		}
		if input.Secret == "" {
			return nil, ErrSecretRequired
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Secret), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		comment.AuthorName = name
		comment.PasswordHash = string(hashed)
	}

	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	return &comment, nil
}

// VerifySecret 校验评论口令。会员评论没有存储哈希，任何口令都返回 false。
func (s *CommentService) VerifySecret(commentID uint, secret string) (bool, error) {
	comment, err := s.getActive(commentID)
	if err != nil {
		return false, err
	}
	return verifySecretHash(comment.PasswordHash, secret), nil
}

// Update 修改评论内容。会员路径只允许原作者本人，管理员没有编辑覆盖权限；
// 匿名路径要求出示口令并校验通过。
func (s *CommentService) Update(commentID uint, content, secret string, userID *uint) (*db.Comment, error) {
	newContent, err := validateCommentContent(content)
	if err != nil {
		return nil, err
	}

	comment, err := s.getActive(commentID)
	if err != nil {
		return nil, err
	}

	if userID != nil {
		if comment.AuthorID == nil || *comment.AuthorID != *userID {
			return nil, ErrCommentForbidden
		}
	} else {
		if secret == "" {
			return nil, ErrSecretRequired
		}
		if !verifySecretHash(comment.PasswordHash, secret) {
			return nil, ErrSecretInvalid
		}
	}

	result := s.db.Model(&db.Comment{}).
		Where("id = ? AND is_deleted = ?", commentID, false).
		Update("content", newContent)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// 加载与写入之间被其他人删除了
		return nil, ErrCommentNotFound
	}

	comment.Content = newContent
	return comment, nil
}

// Delete 逻辑删除评论。管理员可直接删除任何评论；会员只能删除自己的评论；
// 匿名路径要求口令。管理员的删除覆盖权限与编辑不对称，按产品约定保留。
func (s *CommentService) Delete(commentID uint, secret string, userID *uint, isAdmin bool) error {
	comment, err := s.getActive(commentID)
	if err != nil {
		return err
	}

	switch {
	case isAdmin:
	case userID != nil:
		if comment.AuthorID == nil || *comment.AuthorID != *userID {
			return ErrCommentForbidden
		}
	default:
		if secret == "" {
			return ErrSecretRequired
		}
		if !verifySecretHash(comment.PasswordHash, secret) {
			return ErrSecretInvalid
		}
	}

	now := time.Now().UTC()

	// is_deleted 条件保证并发的重复删除只生效一次，0 行受影响不算错误
	return s.db.Model(&db.Comment{}).
		Where("id = ? AND is_deleted = ?", commentID, false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": now}).Error
}

// ListByPost 返回文章下未删除的评论，按创建时间升序。
func (s *CommentService) ListByPost(postID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Preload("Author").
		Order("created_at asc").
		Order("id asc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Count 返回未删除的评论总数。
func (s *CommentService) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&db.Comment{}).Where("is_deleted = ?", false).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *CommentService) getActive(commentID uint) (*db.Comment, error) {
	var comment db.Comment
	if err := s.db.Where("is_deleted = ?", false).First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func validateCommentContent(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrCommentEmpty
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		return "", ErrCommentTooLong
	}
	return content, nil
}

func verifySecretHash(hash, secret string) bool {
	if hash == "" || secret == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
