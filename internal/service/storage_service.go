package service

import (
	"careerzoom_backend/internal/config"
	"careerzoom_backend/internal/util"
	"careerzoom_backend/pkg/logger"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider 头像等用户上传文件的存储
type StorageProvider interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
	// Download 对象不存在时返回 util.ErrObjectNotFound
	Download(ctx context.Context, filename string) ([]byte, error)
	GetURL(filename string) string
}

// LocalStorageProvider 保存到本地目录，由 /uploads 静态路由提供访问
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, filename)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}
	return p.GetURL(filename), nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, filename string) error {
	err := os.Remove(filepath.Join(p.Config.LocalPath, filename))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (p *LocalStorageProvider) Download(ctx context.Context, filename string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(p.Config.LocalPath, filename))
	if os.IsNotExist(err) {
		return nil, util.ErrObjectNotFound
	}
	return data, err
}

func (p *LocalStorageProvider) GetURL(filename string) string {
	return "/uploads/" + filename
}

type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(ctx context.Context, cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, filename, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(filename), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, filename string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, filename, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) Download(ctx context.Context, filename string) ([]byte, error) {
	obj, err := p.Client.GetObject(ctx, p.Config.MinioBucket, filename, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, util.ErrObjectNotFound
		}
		return nil, err
	}
	return data, nil
}

func (p *MinioStorageProvider) GetURL(filename string) string {
	scheme := "http://"
	if p.Config.MinioUseSSL {
		scheme = "https://"
	}
	return scheme + p.Config.MinioEndpoint + "/" + p.Config.MinioBucket + "/" + filename
}

type StorageService struct {
	Provider StorageProvider
}

// NewStorageService MinIO 初始化失败时退回本地存储
func NewStorageService(ctx context.Context, cfg *config.Config) *StorageService {
	var provider StorageProvider
	if cfg.Storage.Type == "minio" {
		p, err := NewMinioStorageProvider(ctx, &cfg.Storage)
		if err != nil {
			logger.Log.Warn("MinIO 初始化失败，使用本地存储", zap.Error(err))
		} else {
			provider = p
		}
	}
	if provider == nil {
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	}
	return &StorageService{Provider: provider}
}

func (s *StorageService) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	return s.Provider.Upload(ctx, filename, reader, size, contentType)
}

func (s *StorageService) Delete(ctx context.Context, filename string) error {
	return s.Provider.Delete(ctx, filename)
}

func (s *StorageService) Download(ctx context.Context, filename string) ([]byte, error) {
	return s.Provider.Download(ctx, filename)
}

func (s *StorageService) GetURL(filename string) string {
	return s.Provider.GetURL(filename)
}
