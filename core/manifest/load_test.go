package manifest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return dir
}

func TestLoad_JSONScenario(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"robot.json": `{"driveTrain":{"motors":{"leftMotor":{"type":"MotorX","channel":1}}}}`,
	})
	m, err := NewLoader(dir, nil).Load("robot.json")
	require.NoError(t, err)

	d := m.Subsystems["driveTrain"]["motors"]["leftMotor"]
	require.NotNil(t, d)
	assert.Equal(t, "MotorX", d.Type())
	assert.EqualValues(t, 1, d["channel"])
	assert.Equal(t, 1, m.Count())
	assert.Empty(t, m.Default)
	assert.Empty(t, m.Variants())
}

func TestLoad_YAMLReservedKeys(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"robots.yml": `
default: Doof
compatibility: [doof, minibot]
variants:
  doof: doof.yml
  Minibot: minibot.json
driveTrain:
  motors:
    leftMotor: {type: CANTalonFX, channel: 30}
    rightMotor: {type: CANTalonFX, channel: 31}
`,
	})
	m, err := NewLoader(dir, nil).Load("robots.yml")
	require.NoError(t, err)

	assert.Equal(t, "doof", m.Default)
	assert.Equal(t, []string{"doof", "minibot"}, m.Compatibility)
	assert.Equal(t, []string{"doof", "minibot"}, m.Variants())
	doc, ok := m.VariantDocument("MINIBOT")
	assert.True(t, ok)
	assert.Equal(t, "minibot.json", doc)
	assert.Len(t, m.Subsystems, 1)
	assert.NotContains(t, m.Subsystems, KeyVariants)
	assert.Equal(t, 2, m.Count())
}

func TestLoad_ReferencesAreMerged(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"doof.yml": `
shooter:
  motors:
    shooterMotor: {type: CANTalonFX, channel: 5}
extra:
  file: shooter.json
  format: json
pneumatics:
  file: pneumatics.yaml
`,
		"shooter.json": `{"shooter":{"sensors":{"loadSensor":{"type":"DigitalInput","channel":2}}},
		                  "hopper":{"motors":{"hopperMotor":{"type":"SparkMax","channel":7,"motorType":"kBrushless"}}}}`,
		"pneumatics.yaml": `
pneumatics:
  compressors:
    compressor: {type: Compressor}
`,
	})
	m, err := NewLoader(dir, nil).Load("doof.yml")
	require.NoError(t, err)

	assert.Len(t, m.Subsystems, 3)
	assert.Contains(t, m.Subsystems["shooter"], "motors")
	assert.Contains(t, m.Subsystems["shooter"], "sensors")
	assert.Equal(t, "SparkMax", m.Subsystems["hopper"]["motors"]["hopperMotor"].Type())
	assert.Equal(t, "Compressor", m.Subsystems["pneumatics"]["compressors"]["compressor"].Type())
	assert.NotContains(t, m.Subsystems, "extra")
	assert.Equal(t, 4, m.Count())
}

func TestLoad_CyclicReference(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.yml": "b:\n  file: b.yml\n  format: yaml\n",
		"b.yml": "a:\n  file: a.yml\n  format: yaml\n",
	})
	_, err := NewLoader(dir, nil).Load("a.yml")
	var cyc *CyclicReferenceError
	require.ErrorAs(t, err, &cyc)
	assert.Equal(t, []string{"a.yml", "b.yml", "a.yml"}, cyc.Chain)
}

func TestLoad_SharedReferenceIsNotACycle(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"top.yml":    "x:\n  file: left.yml\ny:\n  file: right.yml\n",
		"left.yml":   "l:\n  file: common.yml\n",
		"right.yml":  "r:\n  file: common.yml\n",
		"common.yml": "sensors:\n  inputs:\n    gyro: {type: navX, method: spi}\n",
	})
	m, err := NewLoader(dir, nil).Load("top.yml")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count())
}

func TestLoad_UnsupportedFormats(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"robot.toml": "x = 1",
		"robot.yml":  "shooter:\n  file: shooter.xml\n  format: xml\n",
	})
	l := NewLoader(dir, nil)

	_, err := l.Load("robot.toml")
	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, ".toml", unsupported.Format)

	_, err = l.Load("robot.yml")
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "xml", unsupported.Format)
	assert.Equal(t, "shooter.xml", unsupported.File)
}

func TestLoad_MissingFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"robot.yml": "shooter:\n  file: gone.yml\n",
	})
	l := NewLoader(dir, nil)

	_, err := l.Load("absent.json")
	var missing *MissingFileError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "absent.json", missing.File)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = l.Load("robot.yml")
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "gone.yml", missing.File)
}

func TestLoad_Malformed(t *testing.T) {
	cases := map[string]string{
		"scalar subsystem": "driveTrain: 3\n",
		"scalar group":     "driveTrain:\n  motors: 3\n",
		"scalar item":      "driveTrain:\n  motors:\n    left: 3\n",
		"missing type":     "driveTrain:\n  motors:\n    left: {channel: 1}\n",
		"bad variants":     "variants: [doof]\n",
		"bad default":      "default: {a: b}\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			dir := writeFiles(t, map[string]string{"robot.yml": body})
			_, err := NewLoader(dir, nil).Load("robot.yml")
			var malformed *MalformedError
			assert.ErrorAs(t, err, &malformed)
		})
	}
}

func TestManifest_WalkIsSorted(t *testing.T) {
	m := &Manifest{Subsystems: map[string]Subsystem{
		"shooter":    {"motors": {"b": {"type": "T"}, "a": {"type": "T"}}},
		"driveTrain": {"sensors": {"z": {"type": "T"}}, "motors": {"y": {"type": "T"}}},
	}}
	var seen []string
	require.NoError(t, m.Walk(func(s, g, i string, _ Descriptor) error {
		seen = append(seen, s+"/"+g+"/"+i)
		return nil
	}))
	assert.Equal(t, []string{
		"driveTrain/motors/y", "driveTrain/sensors/z", "shooter/motors/a", "shooter/motors/b",
	}, seen)
}

func TestDescriptor_CloneIsDeep(t *testing.T) {
	d := Descriptor{"type": "CANTalonFX", "pid": map[string]any{"kP": 1.0}}
	c := d.Clone()
	c["pid"].(map[string]any)["kP"] = 2.0
	delete(c, "type")
	assert.Equal(t, 1.0, d["pid"].(map[string]any)["kP"])
	assert.Equal(t, "CANTalonFX", d.Type())
}
