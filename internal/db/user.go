package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrUserCredentials 表示用户名或密码为空。
var ErrUserCredentials = errors.New("username and password are required")

// User 是后台管理员账号，密码以 bcrypt 哈希保存。
type User struct {
	gorm.Model
	Username string `gorm:"unique;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
}

// SetPassword hashes password into u.Password.
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// EnsureUser 在用户名与密码均非空且账号不存在时创建管理员，已存在则保持原密码。
func EnsureUser(conn *gorm.DB, username, password string) error {
	username, password = strings.TrimSpace(username), strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil
	}
	_, err := upsertUser(conn, username, password, false)
	return err
}

// ResetUserPassword 创建账号或覆盖已有账号的密码，返回是否为新建。
func ResetUserPassword(conn *gorm.DB, username, password string) (bool, error) {
	username, password = strings.TrimSpace(username), strings.TrimSpace(password)
	if username == "" || password == "" {
		return false, ErrUserCredentials
	}
	return upsertUser(conn, username, password, true)
}

func upsertUser(conn *gorm.DB, username, password string, overwrite bool) (bool, error) {
	if conn == nil {
		return false, errors.New("database not initialized")
	}

	var user User
	err := conn.Where("username = ?", username).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = User{Username: username}
		if err := user.SetPassword(password); err != nil {
			return false, err
		}
		return true, conn.Create(&user).Error
	case err != nil:
		return false, err
	case !overwrite:
		return false, nil
	}

	if err := user.SetPassword(password); err != nil {
		return false, err
	}
	return false, conn.Model(&user).Update("password", user.Password).Error
}
