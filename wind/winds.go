package wind

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jasonlvhit/gocron"
	log "github.com/sirupsen/logrus"
)

// ForecastWinds holds the grids valid at one stamp, oldest run first.
type ForecastWinds []*Wind

func (w ForecastWinds) String() string {
	res := ""
	res += w[0].Date.Format("2006010215") + "(" + w[0].File
	if len(w) > 1 {
		res += "," + w[1].File
	}
	res += ")"
	return res
}

// Winds watches a directory of grib files and serves interpolated wind
// vectors for any time the files cover.
type Winds struct {
	winds map[string](ForecastWinds)
	dir   string
	lock  sync.RWMutex
}

func InitWinds(dir string) *Winds {
	w := &Winds{
		winds: loadAll(dir),
		dir:   dir,
		lock:  sync.RWMutex{},
	}

	s := gocron.NewScheduler()
	jobxx := s.Every(15).Seconds()
	jobxx.Do(w.Merge)

	go s.Start()

	return w
}

// FindWinds returns the forecasts bracketing m and the blend fraction
// between them. Outside the covered range the nearest forecast comes
// back alone.
func (w *Winds) FindWinds(m time.Time) (ForecastWinds, ForecastWinds, float64) {
	w.lock.Lock()
	defer w.lock.Unlock()

	stamp := m.Format("2006010215")

	keys := make([]string, 0, len(w.winds))
	for k := range w.winds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return nil, nil, 0
	}
	if keys[0] > stamp {
		return w.winds[keys[0]], nil, 0
	}
	for i := range keys {
		if keys[i] > stamp {
			h := m.Sub(w.winds[keys[i-1]][0].Date).Minutes()
			delta := w.winds[keys[i]][0].Date.Sub(w.winds[keys[i-1]][0].Date).Minutes()
			return w.winds[keys[i-1]], w.winds[keys[i]], h / delta
		}
	}
	return w.winds[keys[len(keys)-1]], nil, 0
}

// Vector interpolates the wind at lat/lon for time m, blending the two
// bracketing forecasts. Calm if no grib files are loaded.
func (w *Winds) Vector(m time.Time, lat float64, lon float64) Vector {
	w1, w2, h := w.FindWinds(m)
	if w1 == nil {
		return Vector{}
	}
	u, v := midInterpolate(w1, lat, lon, h)
	if w2 != nil {
		u2, v2 := midInterpolate(w2, lat, lon, h)
		u = u2*h + u*(1-h)
		v = v2*h + v*(1-h)
	}
	return Vector{U: u, V: v}
}

// ForecastAt binds the store to a tick time m, so that hours offsets in
// the returned forecast move forward from m.
func (w *Winds) ForecastAt(m time.Time) Forecast {
	return func(lat, lon, hours float64) Vector {
		return w.Vector(m.Add(time.Duration(hours*float64(time.Hour))), lat, lon)
	}
}

// Stamps lists the loaded forecast stamps and their files.
func (w *Winds) Stamps() map[string][]string {
	w.lock.RLock()
	defer w.lock.RUnlock()

	res := make(map[string][]string, len(w.winds))
	for k, ws := range w.winds {
		for _, wind := range ws {
			res[k] = append(res[k], wind.File)
		}
	}
	return res
}

// scan lists the usable grib files of dir, keyed by forecast stamp.
// Stale files more than 3 hours in the past are skipped, except the
// last one, which stays so there is always something to serve.
func scan(dir string) map[string][]string {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.WithError(err).Errorf("Error walking file '%s'", path)
		} else if info.Mode().IsRegular() && !strings.HasSuffix(info.Name(), ".tmp") {
			files = append(files, info.Name())
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Error walking grib files")
		return nil
	}

	sort.Strings(files)

	forecasts := make(map[int][]string)

	for cpt, f := range files {

		d := strings.Split(f, ".")[0]

		h, err := strconv.Atoi(strings.Split(f, ".")[1][1:])
		if err != nil {
			log.WithError(err).Errorf("Error getting hour from file '%s'", f)
			return nil
		}
		t, err := time.Parse("2006010215", d)
		if err != nil {
			log.WithError(err).Errorf("Error parsing date '%s'", d)
			return nil
		}

		t = t.Add(time.Hour * time.Duration(h))

		forecastHour := int(math.Round(t.Sub(time.Now()).Hours()))

		if forecastHour < -3 && cpt < len(files)-1 {
			continue
		}

		_, found := forecasts[forecastHour]

		// a newer run never replaces the forecast already covering the past
		if !found || forecastHour >= 0 {
			forecasts[forecastHour] = append(forecasts[forecastHour], f)
		}
	}

	var keys []int
	for k := range forecasts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	stamped := make(map[string][]string)
	for _, k := range keys {
		for _, file := range forecasts[k] {
			d := strings.Split(file, ".")[0]
			date, _ := time.Parse("2006010215", d)
			f, _ := strconv.Atoi(strings.Split(file, ".")[1][1:])
			date = date.Add(time.Hour * time.Duration(f))
			sdate := date.Format("2006010215")
			stamped[sdate] = append(stamped[sdate], file)
		}
	}
	return stamped
}

func stampDate(stamp string) time.Time {
	date, _ := time.Parse("2006010215", stamp)
	return date
}

// Merge reconciles the store with the directory: drops grids whose file
// went away, loads stamps and runs that appeared.
func (w *Winds) Merge() error {
	w.lock.Lock()
	defer w.lock.Unlock()

	var toRemove []string
	for k, ws := range w.winds {
		if _, err := os.Stat(filepath.Join(w.dir, ws[0].File)); os.IsNotExist(err) {
			toRemove = append(toRemove, k)
		}
	}
	for _, k := range toRemove {
		log.Println("Remove from winds", k)
		delete(w.winds, k)
	}

	for sdate, files := range scan(w.dir) {
		for _, file := range files {

			ws, found := w.winds[sdate]
			if found {
				if len(ws) == 2 || ws[0].File == file {
					continue
				}
			}

			wind, err := Init(stampDate(sdate), w.dir, file)
			if err != nil {
				log.WithError(err).Errorf("Error loading grib file '%s'", file)
			} else {
				log.Debugf("Init %s %s", sdate, wind.File)
				w.winds[sdate] = append(w.winds[sdate], &wind)
			}
		}
	}

	return nil
}

func loadAll(dir string) map[string](ForecastWinds) {
	winds := make(map[string](ForecastWinds))
	for sdate, files := range scan(dir) {
		for _, file := range files {
			wind, err := Init(stampDate(sdate), dir, file)
			if err != nil {
				log.WithError(err).Errorf("Error loading grib file '%s'", file)
			} else {
				log.Debugf("Init %s %s", sdate, wind.File)
				winds[sdate] = append(winds[sdate], &wind)
			}
		}
	}
	return winds
}
