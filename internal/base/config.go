package base

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/half-nothing/simple-fdr/internal/interfaces/config"
	"github.com/half-nothing/simple-fdr/internal/interfaces/global"
	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
	"github.com/half-nothing/simple-fdr/internal/utils"
	"github.com/joho/godotenv"
)

// loadEnvFile 加载 dotenv 文件, 已存在的环境变量优先
func loadEnvFile(logger log.LoggerInterface, path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.WarnF("Fail to load env file %s: %v", path, err)
		}
		return
	}
	logger.DebugF("Environment loaded from %s", path)
}

func readConfig(logger log.LoggerInterface, path string) (*config.Config, *config.ValidResult) {
	cfg := config.DefaultConfig()

	bytes, err := os.ReadFile(path)
	if err != nil {
		if err := saveConfig(path, cfg); err != nil {
			return nil, config.ValidFailWith(errors.New("fail to save configuration file while creating configuration file"), err)
		}
		return nil, config.ValidFail(errors.New("the configuration file does not exist and has been created. Please try again after editing the configuration file"))
	}
	if err := json.Unmarshal(bytes, cfg); err != nil {
		return nil, config.ValidFailWith(errors.New("the configuration file does not contain valid JSON"), err)
	}
	for _, key := range cfg.ApplyEnvironment(os.LookupEnv) {
		logger.InfoF("Configuration field overridden by environment variable %s", key)
	}
	if result := cfg.CheckValid(logger); result.IsFail() {
		return nil, result
	}
	return cfg, config.ValidPass()
}

func saveConfig(path string, cfg *config.Config) error {
	data, err := json.MarshalIndent(cfg, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, global.DefaultFilePermissions)
}

type Manager struct {
	path   string
	config *utils.CachedValue[config.Config]
	logger log.LoggerInterface
}

func NewManager(logger log.LoggerInterface) *Manager {
	loadEnvFile(logger, *global.EnvFilePath)
	return newManagerWithPath(logger, *global.ConfigFilePath)
}

func newManagerWithPath(logger log.LoggerInterface, path string) *Manager {
	manager := &Manager{
		path:   path,
		logger: logger,
	}
	manager.config = utils.NewCachedValue(0, manager.getConfig)
	return manager
}

func (manager *Manager) getConfig() *config.Config {
	cfg, result := readConfig(manager.logger, manager.path)
	if result.IsFail() {
		manager.logger.Fatal(result.String())
		panic(result.Error())
	}
	return cfg
}

func (manager *Manager) Config() *config.Config {
	return manager.config.GetValue()
}

func (manager *Manager) SaveConfig() error {
	return saveConfig(manager.path, manager.Config())
}
