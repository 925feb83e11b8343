package ssh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/utm-trs/imgfetch/pkg/storage"
)

type Backend struct {
	name       string
	sshClient  *ssh.Client
	sftpClient *sftp.Client
	remotePath string
}

func init() {
	storage.RegisterBackend("ssh", func(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
		return New(cfg)
	})
}

// New creates a new SSH/SFTP source backend
func New(cfg storage.Config) (*Backend, error) {
	sshCfg, err := parseConfig(cfg.Options)
	if err != nil {
		return nil, err
	}

	clientConfig := &ssh.ClientConfig{
		User:            sshCfg.User,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: Add host key verification
		Timeout:         30 * time.Second,
	}

	if sshCfg.Password != "" {
		clientConfig.Auth = append(clientConfig.Auth, ssh.Password(sshCfg.Password))
	}

	if sshCfg.KeyPath != "" {
		key, err := os.ReadFile(sshCfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read SSH key: %w", err)
		}

		var signer ssh.Signer
		if sshCfg.KeyPassphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(sshCfg.KeyPassphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(key)
		}

		if err != nil {
			return nil, fmt.Errorf("failed to parse SSH key: %w", err)
		}

		clientConfig.Auth = append(clientConfig.Auth, ssh.PublicKeys(signer))
	}

	if sshCfg.Port == 0 {
		sshCfg.Port = 22
	}

	addr := fmt.Sprintf("%s:%d", sshCfg.Host, sshCfg.Port)
	sshClient, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "connect", storage.ErrConnFailed)
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, storage.WrapError(cfg.Name, "sftp init", err)
	}

	// The image store must already exist; this backend never writes to it
	if _, err := sftpClient.Stat(sshCfg.RemotePath); err != nil {
		sftpClient.Close()
		sshClient.Close()
		return nil, storage.WrapError(cfg.Name, "remote path", err)
	}

	return &Backend{
		name:       cfg.Name,
		sshClient:  sshClient,
		sftpClient: sftpClient,
		remotePath: sshCfg.RemotePath,
	}, nil
}

func (b *Backend) Name() string { return b.name }
func (b *Backend) Type() string { return "ssh" }

// Fetch downloads an object via SFTP into a local file
func (b *Backend) Fetch(ctx context.Context, key, destPath string) error {
	return storage.WithRetry(ctx, storage.DefaultRetryConfig(), func() error {
		remoteFile, err := b.sftpClient.Open(path.Join(b.remotePath, key))
		if err != nil {
			if os.IsNotExist(err) {
				return storage.ErrNotFound
			}
			return storage.WrapError(b.name, "open", err)
		}
		defer remoteFile.Close()

		localFile, err := os.Create(destPath)
		if err != nil {
			return err
		}
		defer localFile.Close()

		if _, err := io.Copy(localFile, remoteFile); err != nil {
			os.Remove(destPath) // Clean up partial file
			return storage.WrapError(b.name, "download", err)
		}

		return nil
	})
}

// List returns objects under the given key prefix
func (b *Backend) List(ctx context.Context, prefix string) ([]storage.FileInfo, error) {
	root := path.Join(b.remotePath, prefix)

	walker := b.sftpClient.Walk(root)

	var files []storage.FileInfo
	for walker.Step() {
		if walker.Err() != nil {
			continue // Skip unreadable entries
		}

		info := walker.Stat()
		if info.IsDir() || info.Size() == 0 {
			continue
		}

		relKey, err := relativeKey(b.remotePath, walker.Path())
		if err != nil {
			continue
		}

		files = append(files, storage.FileInfo{
			Key:     relKey,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})

	return files, nil
}

// Stat returns object metadata
func (b *Backend) Stat(ctx context.Context, key string) (*storage.FileInfo, error) {
	info, err := b.sftpClient.Stat(path.Join(b.remotePath, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, storage.WrapError(b.name, "stat", err)
	}

	return &storage.FileInfo{
		Key:     key,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Exists checks if an object exists
func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.Stat(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PresignURL is not supported over SFTP
func (b *Backend) PresignURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "", storage.ErrNotSupported
}

// Close releases resources
func (b *Backend) Close() error {
	if b.sftpClient != nil {
		b.sftpClient.Close()
	}
	if b.sshClient != nil {
		b.sshClient.Close()
	}
	return nil
}

func relativeKey(base, full string) (string, error) {
	if len(full) <= len(base) {
		return "", fmt.Errorf("path %s outside base %s", full, base)
	}
	rel := full[len(base):]
	for len(rel) > 0 && rel[0] == '/' {
		rel = rel[1:]
	}
	return rel, nil
}

func parseConfig(options map[string]interface{}) (*Config, error) {
	cfg := &Config{
		Port: 22,
	}

	if v, ok := options["host"].(string); ok {
		cfg.Host = v
	} else {
		return nil, fmt.Errorf("missing required option: host")
	}
	if v, ok := options["port"].(float64); ok {
		cfg.Port = int(v)
	}
	if v, ok := options["user"].(string); ok {
		cfg.User = v
	} else {
		return nil, fmt.Errorf("missing required option: user")
	}
	if v, ok := options["password"].(string); ok {
		cfg.Password = v
	}
	if v, ok := options["key_path"].(string); ok {
		cfg.KeyPath = v
	}
	if v, ok := options["key_passphrase"].(string); ok {
		cfg.KeyPassphrase = v
	}
	if v, ok := options["remote_path"].(string); ok {
		cfg.RemotePath = v
	} else {
		return nil, fmt.Errorf("missing required option: remote_path")
	}

	return cfg, nil
}
