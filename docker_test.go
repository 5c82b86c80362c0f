package careportal_test

import (
	"bufio"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type composeService struct {
	Image       string            `yaml:"image"`
	Command     []string          `yaml:"command"`
	Environment map[string]string `yaml:"environment"`
	Ports       []string          `yaml:"ports"`
	Networks    []string          `yaml:"networks"`
	DependsOn   map[string]struct {
		Condition string `yaml:"condition"`
	} `yaml:"depends_on"`
}

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
	Networks map[string]struct {
		Internal bool `yaml:"internal"`
	} `yaml:"networks"`
}

func loadCompose(t *testing.T) composeFile {
	t.Helper()
	data, err := os.ReadFile("docker-compose.yml")
	require.NoError(t, err)
	var cf composeFile
	require.NoError(t, yaml.Unmarshal(data, &cf))
	return cf
}

// dockerStages はDockerfileをFROMごとの命令列に分ける。
func dockerStages(t *testing.T) [][]string {
	t.Helper()
	f, err := os.Open("Dockerfile")
	require.NoError(t, err)
	defer f.Close()

	var stages [][]string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "FROM ") {
			stages = append(stages, nil)
		}
		if len(stages) > 0 {
			stages[len(stages)-1] = append(stages[len(stages)-1], line)
		}
	}
	require.NoError(t, sc.Err())
	return stages
}

func TestDockerfile_Stages(t *testing.T) {
	stages := dockerStages(t)
	require.Len(t, stages, 2, "build stage and runtime stage")

	build, runtime := stages[0], stages[1]
	assert.True(t, strings.HasPrefix(build[0], "FROM golang:"), build[0])
	assert.Contains(t, strings.Join(build, "\n"), "-o /out/careportal ./cmd/careportal")

	assert.Contains(t, runtime[0], "gcr.io/distroless/static")
	assert.Contains(t, runtime, "COPY --from=build /out/careportal /careportal")
	assert.Contains(t, runtime, `ENTRYPOINT ["/careportal"]`)
	assert.Contains(t, runtime, `CMD ["serve"]`)
}

func TestDockerfile_HealthcheckUsesSubcommand(t *testing.T) {
	runtime := dockerStages(t)[1]
	idx := slices.IndexFunc(runtime, func(l string) bool { return strings.HasPrefix(l, "HEALTHCHECK ") })
	require.NotEqual(t, -1, idx, "runtime stage must declare HEALTHCHECK")
	// distrolessにはシェルがない
	assert.Contains(t, runtime[idx], `CMD ["/careportal", "healthcheck"]`)
}

func TestCompose_ServicesRunSubcommands(t *testing.T) {
	cf := loadCompose(t)
	for name, want := range map[string]string{"api": "serve", "worker": "worker", "migrate": "migrate"} {
		svc, ok := cf.Services[name]
		require.True(t, ok, "service %s", name)
		assert.Equal(t, []string{want}, svc.Command, name)
		assert.Contains(t, svc.Environment["DATABASE_URL"], "@db:5432/", name)
	}
	assert.True(t, strings.HasPrefix(cf.Services["db"].Image, "postgres:"))
	assert.True(t, strings.HasPrefix(cf.Services["redis"].Image, "redis:"))
}

func TestCompose_ChangeEventsShareRedis(t *testing.T) {
	cf := loadCompose(t)
	assert.NotEmpty(t, cf.Services["api"].Environment["REDIS_URL"])
	assert.Equal(t, cf.Services["api"].Environment["REDIS_URL"], cf.Services["worker"].Environment["REDIS_URL"])
}

func TestCompose_MigrateRunsFirst(t *testing.T) {
	cf := loadCompose(t)
	assert.Equal(t, "service_healthy", cf.Services["migrate"].DependsOn["db"].Condition)
	for _, name := range []string{"api", "worker"} {
		assert.Equal(t, "service_completed_successfully", cf.Services[name].DependsOn["migrate"].Condition, name)
	}
}

func TestCompose_OnlyAPIReachesOutside(t *testing.T) {
	cf := loadCompose(t)
	require.True(t, cf.Networks["backend"].Internal, "backend must be internal")
	require.Contains(t, cf.Networks, "external")

	for name, svc := range cf.Services {
		assert.Contains(t, svc.Networks, "backend", name)
		if name == "api" {
			assert.Contains(t, svc.Networks, "external")
			assert.NotEmpty(t, svc.Ports)
			continue
		}
		assert.NotContains(t, svc.Networks, "external", name)
		assert.Empty(t, svc.Ports, name)
	}
}
